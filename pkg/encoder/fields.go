package encoder

// Bit packers for the six RV32I formats. Callers range-check every field first; the packers only
// mask and shift.

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)&0xFFF<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5)&0x7F<<25 | rs2<<20 | rs1<<15 | funct3<<12 | u&0x1F<<7 | opcode
}

// encodeB places imm[12|10:5] in bits 31:25 and imm[4:1|11] in bits 11:7
func encodeB(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12)&0x1<<31 |
		(u>>5)&0x3F<<25 |
		rs2<<20 |
		rs1<<15 |
		funct3<<12 |
		(u>>1)&0xF<<8 |
		(u>>11)&0x1<<7 |
		opcode
}

// encodeU takes the 20-bit upper immediate, not the shifted value
func encodeU(opcode, rd uint32, imm int32) uint32 {
	return uint32(imm)&0xFFFFF<<12 | rd<<7 | opcode
}

// encodeJ places imm[20|10:1|11|19:12] in bits 31:12
func encodeJ(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20)&0x1<<31 |
		(u>>1)&0x3FF<<21 |
		(u>>11)&0x1<<20 |
		(u>>12)&0xFF<<12 |
		rd<<7 |
		opcode
}
