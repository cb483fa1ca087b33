package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rvasm/pkg/assembler"
	"rvasm/pkg/color"
	"rvasm/pkg/emitter"
	"rvasm/pkg/interpreter"
	"rvasm/pkg/program"

	"github.com/charmbracelet/log"
)

type Options struct {
	Verbose     bool      // Enable debug logging
	NoColor     bool      // Disable colored output
	Listing     bool      // Print the encoded listing
	DumpSymbols bool      // Print the symbol table
	ABINames    bool      // Use ABI register names in the listing
	ShouldRun   bool      // Execute the image on the reference hart after writing it
	MaxSteps    int       // Step limit for ShouldRun (0 = unlimited)
	Trace       bool      // Print every executed instruction while running
	Break       string    // Optional breakpoint address (hex) for ShouldRun
	Format      string    // Output format: bin or hex
	BSS         string    // .bss policy: fill or omit
	Base        string    // Text base address (hex)
	RODataBase  string    // Optional .rodata base (hex)
	DataBase    string    // Optional .data base (hex)
	BSSBase     string    // Optional .bss base (hex)
	InputFile   string    // Path to the source file
	OutputFile  string    // Path to the output file
	Stdout      io.Writer // Destination of the listing and symbol dump, os.Stdout when nil
}

// Run assembles the input file and writes the output file. Nothing is written when any stage
// fails.
func (opts *Options) Run() error {
	asmCfg, outCfg, err := opts.configs()
	if err != nil {
		return err
	}
	runOpts, err := opts.runOptions()
	if err != nil {
		return err
	}
	format, err := emitter.New(outCfg)
	if err != nil {
		return fmt.Errorf("%w: --format: %v", ErrUsage, err)
	}

	log.Info("Assembling", "file", opts.InputFile, "format", format.Name(), "base", fmt.Sprintf("%#x", asmCfg.TextBase))

	input, err := os.ReadFile(opts.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	res, err := assembler.Assemble(string(input), asmCfg)
	if err != nil {
		return err
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	if opts.Listing {
		if err := printListing(out, res, opts.ABINames); err != nil {
			return err
		}
	}

	if opts.DumpSymbols {
		if err := dumpSymbols(out, res.Symbols); err != nil {
			return err
		}
	}

	if err := writeAtomic(opts.OutputFile, func(w io.Writer) error { return format.Emit(w, res.Image) }); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Info("Wrote image", "file", opts.OutputFile, "segments", len(res.Image.Segments))

	if opts.ShouldRun {
		if opts.Trace {
			runOpts = append(runOpts, interpreter.WithTrace(out))
		}
		it, err := interpreter.NewInterpreter(res.Image, runOpts...)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		if err := it.Run(); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(out, "halted by %s after %d steps, a0 = %#x\n", it.HaltedBy(), it.Steps(), it.Reg("a0"))
	}

	return nil
}

// configs validates the flag values and turns them into stage configurations
func (opts *Options) configs() (assembler.Config, emitter.Config, error) {
	asmCfg := assembler.DefaultConfig()
	outCfg := emitter.Config{Format: strings.ToLower(opts.Format)}

	if _, err := emitter.New(outCfg); err != nil {
		return asmCfg, outCfg, fmt.Errorf("%w: --format: %v", ErrUsage, err)
	}

	mode, err := emitter.ParseBSSMode(opts.BSS)
	if err != nil {
		return asmCfg, outCfg, fmt.Errorf("%w: --bss: %v", ErrUsage, err)
	}
	outCfg.BSS = mode

	if opts.Base != "" {
		base, err := parseAddress("--base", opts.Base)
		if err != nil {
			return asmCfg, outCfg, err
		}
		asmCfg.TextBase = base
	}

	bases := []struct {
		flag    string
		value   string
		section program.SectionName
	}{
		{"--rodata-base", opts.RODataBase, program.ROData},
		{"--data-base", opts.DataBase, program.Data},
		{"--bss-base", opts.BSSBase, program.BSS},
	}
	for _, b := range bases {
		if b.value == "" {
			continue
		}
		addr, err := parseAddress(b.flag, b.value)
		if err != nil {
			return asmCfg, outCfg, err
		}
		if asmCfg.Bases == nil {
			asmCfg.Bases = make(map[program.SectionName]uint32)
		}
		asmCfg.Bases[b.section] = addr
	}

	return asmCfg, outCfg, nil
}

// runOptions turns the run flags into interpreter options
func (opts *Options) runOptions() ([]interpreter.Option, error) {
	runOpts := []interpreter.Option{interpreter.WithMaxSteps(opts.MaxSteps)}
	if opts.Break != "" {
		addr, err := parseAddress("--break", opts.Break)
		if err != nil {
			return nil, err
		}
		runOpts = append(runOpts, interpreter.WithBreakpoint(addr))
	}
	return runOpts, nil
}

// parseAddress reads a 32-bit hexadecimal address with or without a 0x prefix
func parseAddress(flag, s string) (uint32, error) {
	digits := strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || digits == "" {
		return 0, fmt.Errorf("%w: %s: %q is not a 32-bit hex address", ErrUsage, flag, s)
	}
	return uint32(v), nil
}

// writeAtomic writes through a temporary file in the destination directory and renames it into
// place once emit succeeds
func writeAtomic(path string, emit func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rvasm-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := emit(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// EnableColor applies --no-color to terminal output
func (opts *Options) EnableColor() {
	if opts.NoColor {
		color.EnableColor(false)
	}
}
