package assembler_test

import (
	"bytes"
	"errors"
	"rvasm/pkg/assembler"
	"rvasm/pkg/emitter"
	"rvasm/pkg/encoder"
	"rvasm/pkg/layout"
	"rvasm/pkg/lexer"
	"rvasm/pkg/parser"
	"rvasm/pkg/program"
	"rvasm/pkg/symtab"
	"testing"
)

func bin(t *testing.T, src string) []byte {
	t.Helper()
	res, err := assembler.Assemble(src, assembler.DefaultConfig())
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	var buf bytes.Buffer
	if err := res.Emit(&buf, emitter.Config{Format: "bin"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return buf.Bytes()
}

func TestPipeline(t *testing.T) {
	src := "main: addi a0, a0, 1\nj main\n.data\nmsg: .string \"hi\"\n"
	res, err := assembler.Assemble(src, assembler.DefaultConfig())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !res.Symbols.Frozen() {
		t.Errorf("symbol table should be frozen")
	}
	if s, _ := res.Symbols.Lookup("msg"); s.Address != 0x4008 {
		t.Errorf("msg = %#x; want 0x4008", s.Address)
	}

	want := []byte{0x13, 0x05, 0x15, 0x00, 0x6F, 0xF0, 0xDF, 0xFF, 'h', 'i', 0}
	if got := bin(t, src); !bytes.Equal(got, want) {
		t.Errorf("bin = % x; want % x", got, want)
	}
}

func TestFirstErrorAborts(t *testing.T) {
	tests := []struct {
		src  string
		kind error
	}{
		{"addi a0, a0, 1 @", lexer.ErrUnknownCharacter},
		{".data\n.string \"abc", lexer.ErrUnterminatedString},
		{"addi a0, a0", parser.ErrMissingOperand},
		{"addi a0, 5, a0", parser.ErrUnexpectedToken},
		{".bogus 1", parser.ErrInvalidDirective},
		{"a: nop\na: nop", symtab.ErrDuplicate},
		{"j nowhere", symtab.ErrUndefined},
		{"addi a0, a0, 4096", encoder.ErrImmediateOutOfRange},
		{"beq a0, a1, 5", encoder.ErrMisalignedOffset},
	}

	for _, tc := range tests {
		res, err := assembler.Assemble(tc.src, assembler.DefaultConfig())
		if !errors.Is(err, tc.kind) {
			t.Errorf("%q: got %v; want %v", tc.src, err, tc.kind)
		}
		if res != nil {
			t.Errorf("%q: result should be nil on error", tc.src)
		}
	}
}

func TestOverlappingBases(t *testing.T) {
	cfg := assembler.DefaultConfig()
	cfg.Bases = map[program.SectionName]uint32{program.Data: 0x4000}
	if _, err := assembler.Assemble("nop\n.data\n.word 1\n", cfg); !errors.Is(err, layout.ErrOverlap) {
		t.Errorf("got %v; want overlap", err)
	}
}

func TestEmptySource(t *testing.T) {
	if got := bin(t, "# nothing here\n\n"); len(got) != 0 {
		t.Errorf("empty program produced % x", got)
	}
}

func TestDataOnlyStartsAtBase(t *testing.T) {
	res, err := assembler.Assemble(".data\ns: .string \"hi\"\n", assembler.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := res.Symbols.Lookup("s"); s.Address != 0x4000 {
		t.Errorf("s = %#x; want 0x4000", s.Address)
	}
	if n := len(res.Image.Listing); n != 0 {
		t.Errorf("listing has %d instruction words; want none", n)
	}

	var buf bytes.Buffer
	if err := res.Emit(&buf, emitter.Config{Format: "bin"}); err != nil {
		t.Fatal(err)
	}
	if want := []byte{'h', 'i', 0}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("bin = % x; want % x", buf.Bytes(), want)
	}
}

func TestLabelNamedLikeMnemonic(t *testing.T) {
	got := bin(t, "j ret\nnop\nret: ebreak\n")
	// jal x0, 8
	if want := []byte{0x6F, 0x00, 0x80, 0x00}; !bytes.Equal(got[:4], want) {
		t.Errorf("j ret = % x; want % x", got[:4], want)
	}
}

func TestFirstErrorIsEarliestLine(t *testing.T) {
	_, err := assembler.Assemble(".data\n.word nowhere\n.text\naddi a0, a0, 5000\n", assembler.DefaultConfig())
	if !errors.Is(err, symtab.ErrUndefined) {
		t.Errorf("got %v; want the undefined symbol on line 2", err)
	}
}

func TestDeterministic(t *testing.T) {
	src := "loop: addi t0, t0, 1\nblt t0, a0, loop\n.rodata\nv: .word loop\n"
	if a, b := bin(t, src), bin(t, src); !bytes.Equal(a, b) {
		t.Errorf("two runs differ: % x vs % x", a, b)
	}
}

func TestCaseInsensitiveMnemonicsAndRegisters(t *testing.T) {
	a := bin(t, "ADDI A0, ZERO, 5\nSW Ra, -4(SP)\n")
	b := bin(t, "addi x10, x0, 5\nsw x1, -4(x2)\n")
	if !bytes.Equal(a, b) {
		t.Errorf("% x != % x", a, b)
	}
}
