package layout_test

import (
	"errors"
	"rvasm/pkg/layout"
	"rvasm/pkg/parser"
	"rvasm/pkg/program"
	"rvasm/pkg/symtab"
	"testing"
)

func build(t *testing.T, src string, cfg layout.Config) *program.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := layout.Build(prog, cfg); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return prog
}

func address(t *testing.T, prog *program.Program, name string) uint32 {
	t.Helper()
	s, ok := prog.Symbols.Lookup(name)
	if !ok {
		t.Fatalf("symbol %q not defined", name)
	}
	return s.Address
}

func TestLabelAddresses(t *testing.T) {
	src := `
start:	nop
	nop
loop:	addi a0, a0, -1
	bnez a0, loop
end:
	.data
msg:	.string "hello"
after:	.byte 1
`
	prog := build(t, src, layout.DefaultConfig())

	tests := []struct {
		name string
		want uint32
	}{
		{"start", 0x4000},
		{"loop", 0x4008},
		{"end", 0x4010},
		{"msg", 0x4010},
		{"after", 0x4016},
	}
	for _, tc := range tests {
		if got := address(t, prog, tc.name); got != tc.want {
			t.Errorf("%s = %#x; want %#x", tc.name, got, tc.want)
		}
	}

	if size := prog.Section(program.Text).Size; size != 16 {
		t.Errorf("text size = %d; want 16", size)
	}
	if size := prog.Section(program.Data).Size; size != 7 {
		t.Errorf("data size = %d; want 7 (no implicit padding)", size)
	}
	if !prog.Symbols.Frozen() {
		t.Errorf("symbol table should be frozen after pass 1")
	}
}

func TestSectionBasesFollowInOrder(t *testing.T) {
	src := ".data\nd: .byte 1\n.rodata\nr: .string \"abc\"\n.text\nnop\n.bss\nb: .space 8\n"
	prog := build(t, src, layout.Config{TextBase: 0x100})

	want := map[program.SectionName]uint32{
		program.Text:   0x100,
		program.ROData: 0x104,
		program.Data:   0x108,
		program.BSS:    0x10C,
	}
	for name, base := range want {
		if got := prog.Section(name).Base; got != base {
			t.Errorf("%s base = %#x; want %#x", name, got, base)
		}
	}
	if got := address(t, prog, "b"); got != 0x10C {
		t.Errorf("b = %#x; want 0x10c", got)
	}
}

func TestExplicitBases(t *testing.T) {
	cfg := layout.Config{TextBase: 0x0, Bases: map[program.SectionName]uint32{program.Data: 0x8000}}
	prog := build(t, "nop\n.data\nv: .word 7\n", cfg)

	if got := address(t, prog, "v"); got != 0x8000 {
		t.Errorf("v = %#x; want 0x8000", got)
	}
}

func TestOverlap(t *testing.T) {
	prog, err := parser.Parse("nop\nnop\n.data\n.word 1\n")
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.Config{TextBase: 0x1000, Bases: map[program.SectionName]uint32{program.Data: 0x1004}}
	if err := layout.Build(prog, cfg); !errors.Is(err, layout.ErrOverlap) {
		t.Errorf("got %v; want overlap", err)
	}
}

func TestMisalignedTextBase(t *testing.T) {
	prog, _ := parser.Parse("nop\n")
	if err := layout.Build(prog, layout.Config{TextBase: 0x4002}); !errors.Is(err, layout.ErrMisalignedBase) {
		t.Errorf("got %v; want misaligned base", err)
	}
}

func TestAlignPadding(t *testing.T) {
	prog := build(t, ".data\n.byte 1\n.align 2\nw: .word 5\n.balign 16\nq: .byte 2\n", layout.DefaultConfig())

	if got := address(t, prog, "w"); got%4 != 0 || got != prog.Section(program.Data).Base+4 {
		t.Errorf("w = %#x; want word aligned at base+4", got)
	}
	if got := address(t, prog, "q"); got%16 != 0 {
		t.Errorf("q = %#x; want 16-byte aligned", got)
	}
}

func TestDuplicateLabel(t *testing.T) {
	prog, err := parser.Parse("a: nop\n.data\na: .byte 1\n")
	if err != nil {
		t.Fatal(err)
	}
	err = layout.Build(prog, layout.DefaultConfig())
	if !errors.Is(err, symtab.ErrDuplicate) {
		t.Fatalf("got %v; want duplicate", err)
	}

	var symErr *symtab.Error
	if errors.As(err, &symErr) && (symErr.Line != 3 || symErr.Previous != 1) {
		t.Errorf("duplicate reported on line %d (previous %d)", symErr.Line, symErr.Previous)
	}
}

func TestLabelSharesLineWithInstruction(t *testing.T) {
	prog := build(t, "nop\nhere: addi a0, a0, 1\n", layout.DefaultConfig())

	ins := prog.Instructions()
	if got := address(t, prog, "here"); got != ins[1].Hdr.Address {
		t.Errorf("label %#x and instruction %#x should share an address", got, ins[1].Hdr.Address)
	}
}

func TestTopOfMemory(t *testing.T) {
	tests := []struct {
		name string
		src  string
		base uint32
		want error
	}{
		{"data after text ending at 4GiB", "nop\n.data\nv: .word 1\n", 0xFFFFFFFC, layout.ErrOverflow},
		{"label in empty data after text ending at 4GiB", "nop\n.data\nv:\n", 0xFFFFFFFC, layout.ErrOverflow},
		{"text alone ending at 4GiB", "nop\n", 0xFFFFFFFC, nil},
		{"text running past 4GiB", "nop\nnop\n", 0xFFFFFFFC, layout.ErrOverflow},
	}

	for _, tc := range tests {
		prog, err := parser.Parse(tc.src)
		if err != nil {
			t.Fatalf("%s: Parse: %v", tc.name, err)
		}
		err = layout.Build(prog, layout.Config{TextBase: tc.base})
		if tc.want == nil && err != nil {
			t.Errorf("%s: got %v; want success", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v; want %v", tc.name, err, tc.want)
		}
	}
}

func TestTextBaseHonoursAlignment(t *testing.T) {
	src := "nop\n.balign 16\nhot: nop\n"

	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := layout.Build(prog, layout.Config{TextBase: 0x4004}); !errors.Is(err, layout.ErrMisalignedBase) {
		t.Errorf("got %v; want misaligned base", err)
	}

	prog = build(t, src, layout.Config{TextBase: 0x4010})
	if got := address(t, prog, "hot"); got != 0x4010+16 {
		t.Errorf("hot = %#x; want %#x", got, 0x4010+16)
	}
}
