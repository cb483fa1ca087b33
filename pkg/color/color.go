package color

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ANSI palette indices
const (
	Red    = "1"
	Green  = "2"
	Yellow = "3"
	Cyan   = "6"
	Gray   = "8"
)

var (
	colorEnabled = true
	profile      = termenv.ANSI
)

func init() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || !isTerminal() {
		colorEnabled = false
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func style(text string) termenv.Style {
	return profile.String(text)
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Foreground(profile.Color(color)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Bold().String()
}

// Address renders a 32-bit address as eight hex digits
func Address(addr uint32) string {
	return CyanText(fmt.Sprintf("%08x", addr))
}

// Word renders an instruction or data word as eight hex digits
func Word(w uint32) string {
	return YellowText(fmt.Sprintf("%08x", w))
}

// Heading renders a section banner such as "=== .text @ 00004000 ==="
func Heading(text string) string {
	return BoldText(GreenText(fmt.Sprintf("=== %s ===", text)))
}

// Undecoded marks a word the disassembler could not read back
func Undecoded(text string) string {
	return RedText(text)
}

func Code(code string) string {
	return GrayText(code)
}
