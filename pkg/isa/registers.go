package isa

import (
	"strconv"
	"strings"
)

var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

var registers = func() map[string]int {
	m := make(map[string]int, 65)
	for i, name := range abiNames {
		m[name] = i
		m["x"+strconv.Itoa(i)] = i
	}
	m["fp"] = 8
	return m
}()

// Register maps a numeric (x0..x31) or ABI register name to its index, ignoring case
func Register(name string) (int, bool) {
	idx, ok := registers[strings.ToLower(name)]
	return idx, ok
}

// RegisterName returns the numeric name of a register index
func RegisterName(idx int) string {
	return "x" + strconv.Itoa(idx)
}

// ABIName returns the calling-convention name of a register index
func ABIName(idx int) string {
	if idx < 0 || idx >= len(abiNames) {
		return "?"
	}
	return abiNames[idx]
}
