package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rvasm/pkg/color"
	"rvasm/pkg/symtab"
)

func writeSource(t *testing.T, src string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "prog.s")
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return in, filepath.Join(dir, "prog.out")
}

func TestRunWritesHex(t *testing.T) {
	in, out := writeSource(t, "start: nop\nj start\n")
	opts := Options{InputFile: in, OutputFile: out, Format: "hex", Stdout: &bytes.Buffer{}}

	if err := opts.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "@00001000\n00000013\nFFDFF06F\n"
	if string(got) != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

func TestFailedRunLeavesNoFile(t *testing.T) {
	in, out := writeSource(t, "addi a0, a0, 99999\n")
	opts := Options{InputFile: in, OutputFile: out, Format: "bin"}

	if err := opts.Run(); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file exists after a failed run")
	}

	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries; want only the source", len(entries))
	}
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	opts := Options{InputFile: filepath.Join(dir, "none.s"), OutputFile: filepath.Join(dir, "o"), Format: "bin"}
	err := opts.Run()
	if err == nil || errors.Is(err, ErrUsage) {
		t.Errorf("got %v; want an I/O error", err)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []Options{
		{Format: "elf"},
		{Format: "bin", BSS: "keep"},
		{Format: "bin", Base: "xyz"},
		{Format: "bin", Base: "0x"},
		{Format: "bin", Base: "100000000"},
		{Format: "bin", DataBase: "-4"},
	}

	for _, opts := range tests {
		if _, _, err := opts.configs(); !errors.Is(err, ErrUsage) {
			t.Errorf("%+v: got %v; want usage error", opts, err)
		}
	}
}

func TestConfigs(t *testing.T) {
	opts := Options{Format: "HEX", BSS: "fill", Base: "0x100", DataBase: "8000"}
	asmCfg, outCfg, err := opts.configs()
	if err != nil {
		t.Fatal(err)
	}
	if asmCfg.TextBase != 0x100 || len(asmCfg.Bases) != 1 || outCfg.Format != "hex" || outCfg.BSS.String() != "fill" {
		t.Errorf("configs = %+v, %+v", asmCfg, outCfg)
	}
}

func TestListingAndSymbols(t *testing.T) {
	prev := color.IsColorEnabled()
	defer color.EnableColor(prev)
	color.EnableColor(false)

	in, out := writeSource(t, "main: li a0, 1\nret\n.data\nval: .word 3\n")
	var stdout bytes.Buffer
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", Listing: true, DumpSymbols: true, Stdout: &stdout}

	if err := opts.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := stdout.String()
	for _, want := range []string{
		"=== .text @ 00004000, 8 bytes ===",
		"00004000  00100513  addi x10, x0, 1",
		"; 2: jalr x0, x1, 0",
		"=== .data @ 00004008, 4 bytes ===",
		"main",
		"val",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stdout lacks %q:\n%s", want, text)
		}
	}
}

func TestDumpSymbolsOrder(t *testing.T) {
	tab := symtab.New()
	tab.Define(symtab.Symbol{Name: "late", Address: 8})
	tab.Define(symtab.Symbol{Name: "early", Address: 0})

	var buf bytes.Buffer
	if err := dumpSymbols(&buf, tab); err != nil {
		t.Fatal(err)
	}
	if strings.Index(buf.String(), "early") > strings.Index(buf.String(), "late") {
		t.Errorf("symbols not in address order:\n%s", buf.String())
	}
}

func TestRunExecutesImage(t *testing.T) {
	in, out := writeSource(t, "li a0, 0\nli t0, 4\nloop: addi a0, a0, 3\naddi t0, t0, -1\nbnez t0, loop\necall\n")
	var stdout bytes.Buffer
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", ShouldRun: true, Stdout: &stdout}

	if err := opts.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stdout.String(), "halted by ecall") || !strings.Contains(stdout.String(), "a0 = 0xc") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunStepLimit(t *testing.T) {
	in, out := writeSource(t, "spin: j spin\n")
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", ShouldRun: true, MaxSteps: 100, Stdout: &bytes.Buffer{}}

	if err := opts.Run(); err == nil {
		t.Fatal("expected the step limit to stop the run")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("image should be written before running: %v", err)
	}
}

func TestListingABINames(t *testing.T) {
	prev := color.IsColorEnabled()
	defer color.EnableColor(prev)
	color.EnableColor(false)

	in, out := writeSource(t, "li a0, 1\nsw ra, -4(sp)\n")
	var stdout bytes.Buffer
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", Listing: true, ABINames: true, Stdout: &stdout}

	if err := opts.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"addi a0, zero, 1", "sw ra, -4(sp)"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout lacks %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunTraceAndBreak(t *testing.T) {
	in, out := writeSource(t, "li a0, 1\nli a0, 2\nli a0, 3\necall\n")
	var stdout bytes.Buffer
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", ShouldRun: true, Trace: true, Break: "4008", Stdout: &stdout}

	if err := opts.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := stdout.String()
	if !strings.Contains(text, "halted by breakpoint after 2 steps, a0 = 0x2") {
		t.Errorf("stdout = %q", text)
	}
	if strings.Count(text, "addi x10, x0") != 2 {
		t.Errorf("trace should show the two executed instructions:\n%s", text)
	}
}

func TestBadBreakIsUsageError(t *testing.T) {
	in, out := writeSource(t, "nop\n")
	opts := Options{InputFile: in, OutputFile: out, Format: "bin", ShouldRun: true, Break: "nowhere"}
	if err := opts.Run(); !errors.Is(err, ErrUsage) {
		t.Errorf("got %v; want usage error", err)
	}
}
