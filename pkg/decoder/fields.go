package decoder

func opcode(w uint32) uint32 { return w & 0x7F }
func rd(w uint32) int        { return int(w>>7) & 0x1F }
func funct3(w uint32) uint32 { return (w >> 12) & 0x7 }
func rs1(w uint32) int       { return int(w>>15) & 0x1F }
func rs2(w uint32) int       { return int(w>>20) & 0x1F }
func funct7(w uint32) uint32 { return w >> 25 }

// signExtend treats the low n bits of v as a two's complement number
func signExtend(v uint32, n uint) int64 {
	shift := 32 - n
	return int64(int32(v<<shift) >> shift)
}

func immI(w uint32) int64 {
	return signExtend(w>>20, 12)
}

func immS(w uint32) int64 {
	return signExtend((w>>25)<<5|(w>>7)&0x1F, 12)
}

// immB reassembles imm[12|10:5|4:1|11]
func immB(w uint32) int64 {
	v := (w>>31)&0x1<<12 |
		(w>>7)&0x1<<11 |
		(w>>25)&0x3F<<5 |
		(w>>8)&0xF<<1
	return signExtend(v, 13)
}

// immU returns the 20-bit upper immediate unshifted
func immU(w uint32) int64 {
	return int64(w >> 12)
}

// immJ reassembles imm[20|10:1|11|19:12]
func immJ(w uint32) int64 {
	v := (w>>31)&0x1<<20 |
		(w>>12)&0xFF<<12 |
		(w>>20)&0x1<<11 |
		(w>>21)&0x3FF<<1
	return signExtend(v, 21)
}
