package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"rvasm/internal/driver"
	"rvasm/internal/logger"
	"rvasm/pkg/layout"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	exitOK         = 0
	exitAssembly   = 1
	exitUsageError = 2
)

// Main entry point for the rvasm assembler.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps its outcome to an exit code
func run(args []string, stdout, stderr io.Writer) int {
	logger.Init(stderr, false, false)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, driver.ErrUsage):
		log.Error("Invalid command line", "error", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsageError
	default:
		log.Error("Assembly failed", "error", err)
		return exitAssembly
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	options := driver.Options{Stdout: stdout}

	cmd := &cobra.Command{
		Use:   "assemble <input> <output>",
		Short: "Assemble RV32I source into a memory image",
		Long: `assemble translates one RV32I assembly source file into a binary or
hex memory image for a RISC-V core's instruction memory.

Sections are laid out in the order .text, .rodata, .data, .bss. The text
section starts at --base; every other section follows the previous one
unless its own base is given.`,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", driver.ErrUsage, err)
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(stderr, options.Verbose, options.NoColor)
			options.EnableColor()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.InputFile = args[0]
			options.OutputFile = args[1]
			return options.Run()
		},

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", driver.ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.StringVar(&options.Format, "format", "bin", "Output format (bin or hex)")
	flags.StringVar(&options.Base, "base", fmt.Sprintf("%x", layout.DefaultTextBase), "Text base address (hex)")
	flags.StringVar(&options.BSS, "bss", "omit", "Treatment of .bss in the output (fill or omit)")
	flags.StringVar(&options.RODataBase, "rodata-base", "", "Explicit .rodata base address (hex)")
	flags.StringVar(&options.DataBase, "data-base", "", "Explicit .data base address (hex)")
	flags.StringVar(&options.BSSBase, "bss-base", "", "Explicit .bss base address (hex)")
	flags.BoolVar(&options.Listing, "listing", false, "Print the encoded listing")
	flags.BoolVar(&options.DumpSymbols, "dump-symbols", false, "Print the symbol table")
	flags.BoolVarP(&options.ShouldRun, "run", "r", false, "Run the image on the reference interpreter")
	flags.IntVar(&options.MaxSteps, "max-steps", 1_000_000, "Step limit for --run (0 = unlimited)")
	flags.BoolVar(&options.Trace, "trace", false, "Print each instruction executed by --run")
	flags.StringVar(&options.Break, "break", "", "Stop --run before the instruction at this address (hex)")
	flags.BoolVar(&options.ABINames, "abi-names", false, "Use ABI register names in the listing")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Verbose mode")
	flags.BoolVar(&options.NoColor, "no-color", false, "No color")

	return cmd
}
