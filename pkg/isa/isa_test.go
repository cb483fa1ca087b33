package isa_test

import (
	"rvasm/pkg/isa"
	"testing"
)

func TestRegisters(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"x0", 0},
		{"zero", 0},
		{"ra", 1},
		{"SP", 2},
		{"t0", 5},
		{"fp", 8},
		{"s0", 8},
		{"a0", 10},
		{"X10", 10},
		{"a7", 17},
		{"s2", 18},
		{"s11", 27},
		{"t3", 28},
		{"t6", 31},
		{"x31", 31},
	}

	for _, tc := range tests {
		got, ok := isa.Register(tc.name)
		if !ok || got != tc.want {
			t.Errorf("Register(%q) = %d, %v; want %d, true", tc.name, got, ok, tc.want)
		}
	}

	for _, bad := range []string{"x32", "a8", "t7", "s12", "r1", ""} {
		if _, ok := isa.Register(bad); ok {
			t.Errorf("Register(%q) should not resolve", bad)
		}
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	for _, name := range []string{"addi", "ADDI", "AdDi"} {
		in, ok := isa.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if in.Mnemonic != "addi" || in.Opcode != isa.OpImm {
			t.Errorf("Lookup(%q) = %+v", name, in)
		}
	}

	if in, ok := isa.Lookup("FENCE.I"); !ok || in.Mnemonic != "fencei" {
		t.Errorf("fence.i alias did not resolve to fencei: %+v, %v", in, ok)
	}

	if _, ok := isa.Lookup("mul"); ok {
		t.Errorf("M extension mnemonic must not be in the base table")
	}
}

func TestTableIsUnambiguous(t *testing.T) {
	type key struct{ opcode, funct3, funct7 uint32 }
	seen := map[key]string{}

	for _, in := range isa.All() {
		if in.Category == isa.CategoryNone {
			continue
		}
		k := key{in.Opcode, in.Funct3, 0}
		if in.Format == isa.FormatR || in.Shift {
			k.funct7 = in.Funct7
		}
		if prev, ok := seen[k]; ok {
			t.Errorf("%s and %s share opcode/funct3/funct7", prev, in.Mnemonic)
		}
		seen[k] = in.Mnemonic
	}
}

func TestPseudo(t *testing.T) {
	if !isa.IsPseudo("RET") || !isa.IsMnemonic("li") {
		t.Errorf("pseudo-instructions should be recognised")
	}
	if isa.IsPseudo("addi") {
		t.Errorf("addi is not a pseudo-instruction")
	}
}

func TestCSR(t *testing.T) {
	if addr, ok := isa.CSR("CYCLE"); !ok || addr != 0xC00 {
		t.Errorf("CSR(cycle) = %#x, %v", addr, ok)
	}
	if _, ok := isa.CSR("nope"); ok {
		t.Errorf("unknown CSR name resolved")
	}
}
