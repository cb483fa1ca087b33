package driver

import (
	"fmt"
	"io"

	"rvasm/pkg/assembler"
	"rvasm/pkg/color"
	"rvasm/pkg/decoder"
	"rvasm/pkg/isa"
	"rvasm/pkg/symtab"

	"github.com/k0kubun/pp/v3"
)

// printListing writes one line per encoded instruction, grouped by segment. abi selects ABI
// register names for the disassembly column.
func printListing(w io.Writer, res *assembler.Result, abi bool) error {
	regName := isa.RegisterName
	if abi {
		regName = isa.ABIName
	}

	next := 0
	listing := res.Image.Listing

	for _, seg := range res.Image.Segments {
		banner := fmt.Sprintf("%s @ %08x, %d bytes", seg.Section, seg.Address, seg.Size)
		if seg.Reserved {
			banner += ", reserved"
		}
		if _, err := fmt.Fprintln(w, color.Heading(banner)); err != nil {
			return err
		}

		for next < len(listing) && listing[next].Address >= seg.Address && uint64(listing[next].Address) < seg.End() {
			l := listing[next]
			next++
			_, err := fmt.Fprintf(w, "%s  %s  %-28s %s\n",
				color.Address(l.Address),
				color.Word(l.Word),
				disassemble(l.Word, regName),
				color.Code(fmt.Sprintf("; %d: %s", l.Line, l.Source)))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// disassemble renders word for the listing, flagging words that do not decode
func disassemble(word uint32, regName func(int) string) string {
	in, err := decoder.Decode(word)
	if err != nil {
		return color.Undecoded(fmt.Sprintf(".word %#08x", word))
	}
	return in.Format(regName)
}

// dumpSymbols pretty-prints the symbol table in address order
func dumpSymbols(w io.Writer, symbols *symtab.Table) error {
	printer := pp.New()
	printer.SetColoringEnabled(color.IsColorEnabled())
	_, err := printer.Fprintln(w, symbols.All())
	return err
}
