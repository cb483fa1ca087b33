package isa

import "strings"

// MaxCSR is the largest address of the 12-bit CSR space
const MaxCSR = 0xFFF

var csrs = map[string]uint32{
	"cycle":     0xC00,
	"time":      0xC01,
	"instret":   0xC02,
	"cycleh":    0xC80,
	"timeh":     0xC81,
	"instreth":  0xC82,
	"mstatus":   0x300,
	"misa":      0x301,
	"mie":       0x304,
	"mtvec":     0x305,
	"mscratch":  0x340,
	"mepc":      0x341,
	"mcause":    0x342,
	"mtval":     0x343,
	"mip":       0x344,
	"mcycle":    0xB00,
	"minstret":  0xB02,
	"mvendorid": 0xF11,
	"marchid":   0xF12,
	"mimpid":    0xF13,
	"mhartid":   0xF14,
}

// CSR maps a CSR name to its address, ignoring case
func CSR(name string) (uint32, bool) {
	addr, ok := csrs[strings.ToLower(name)]
	return addr, ok
}
