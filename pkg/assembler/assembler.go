package assembler

import (
	"io"

	"rvasm/pkg/emitter"
	"rvasm/pkg/encoder"
	"rvasm/pkg/image"
	"rvasm/pkg/layout"
	"rvasm/pkg/lexer"
	"rvasm/pkg/parser"
	"rvasm/pkg/program"
	"rvasm/pkg/symtab"

	"github.com/charmbracelet/log"
)

// Config carries the layout choices of one run.
type Config struct {
	TextBase uint32
	Bases    map[program.SectionName]uint32 // optional explicit bases for .rodata, .data and .bss
}

// DefaultConfig places .text at layout.DefaultTextBase
func DefaultConfig() Config {
	return Config{TextBase: layout.DefaultTextBase}
}

// Result is everything one successful run produces.
type Result struct {
	Program *program.Program
	Symbols *symtab.Table // frozen
	Image   *image.Image
}

// Assemble runs Tokenize -> Parse -> pass 1 -> pass 2. The first error aborts the run and is
// returned unchanged.
func Assemble(src string, cfg Config) (*Result, error) {
	p := parser.NewParser(lexer.NewLexer(src))
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}
	log.Debug("Parsed", "records", len(prog.Records))

	if err := layout.Build(prog, layout.Config{TextBase: cfg.TextBase, Bases: cfg.Bases}); err != nil {
		return nil, err
	}
	log.Debug("Laid out", "symbols", prog.Symbols.Len())

	img, err := encoder.Encode(prog)
	if err != nil {
		return nil, err
	}
	log.Debug("Encoded", "segments", len(img.Segments), "instructions", len(img.Listing))

	return &Result{Program: prog, Symbols: prog.Symbols, Image: img}, nil
}

// Emit writes the image in the given output configuration
func (r *Result) Emit(w io.Writer, cfg emitter.Config) error {
	return emitter.Emit(w, r.Image, cfg)
}
