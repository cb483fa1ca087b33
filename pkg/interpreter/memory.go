package interpreter

import "encoding/binary"

// Memory is flat little-endian byte-addressed storage starting at address 0.
type Memory struct {
	bytes []byte
}

// NewMemory allocates size zeroed bytes
func NewMemory(size uint32) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the number of addressable bytes
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

// span returns the n bytes at addr, or false when they fall outside memory
func (m *Memory) span(addr uint32, n uint32) ([]byte, bool) {
	end := uint64(addr) + uint64(n)
	if end > uint64(len(m.bytes)) {
		return nil, false
	}
	return m.bytes[addr:end], true
}

// Load reads a 1, 2 or 4 byte value, zero-extended
func (m *Memory) Load(addr uint32, size uint32) (uint32, bool) {
	b, ok := m.span(addr, size)
	if !ok {
		return 0, false
	}
	switch size {
	case 1:
		return uint32(b[0]), true
	case 2:
		return uint32(binary.LittleEndian.Uint16(b)), true
	default:
		return binary.LittleEndian.Uint32(b), true
	}
}

// Store writes the low size bytes of v
func (m *Memory) Store(addr uint32, size uint32, v uint32) bool {
	b, ok := m.span(addr, size)
	if !ok {
		return false
	}
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	default:
		binary.LittleEndian.PutUint32(b, v)
	}
	return true
}

// Write copies data to addr
func (m *Memory) Write(addr uint32, data []byte) bool {
	b, ok := m.span(addr, uint32(len(data)))
	if !ok {
		return false
	}
	copy(b, data)
	return true
}
