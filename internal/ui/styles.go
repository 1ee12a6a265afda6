package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("6") // Cyan
	ColorSecondary = lipgloss.Color("241")
	ColorSuccess   = lipgloss.Color("2")
	ColorError     = lipgloss.Color("1")
	ColorText      = lipgloss.Color("252")

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)
)

// ColorMode selects whether report output carries ANSI escape codes.
type ColorMode string

const (
	// ColorAlways emits escape codes regardless of the destination.
	ColorAlways ColorMode = "always"
	// ColorNever emits plain text.
	ColorNever ColorMode = "never"
	// ColorAuto emits escape codes only when the destination is a terminal.
	ColorAuto ColorMode = "auto"
)

// ParseColorMode converts a config/flag value into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAlways, ColorNever, ColorAuto:
		return m, nil
	case "":
		return ColorAlways, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want always, never or auto)", s)
	}
}

// Palette decorates report fragments with the five escape styles the
// report uses: bold, underline, cyan, green and red. Every decoration is
// a single "ESC[<n>m text ESC[0m" run so fragments concatenate cleanly.
type Palette struct {
	profile termenv.Profile
}

// NewPalette builds a Palette for the given mode. The writer is only
// inspected in ColorAuto mode.
func NewPalette(mode ColorMode, out io.Writer) Palette {
	switch mode {
	case ColorNever:
		return Palette{profile: termenv.Ascii}
	case ColorAuto:
		if IsTerminal(out) {
			return Palette{profile: termenv.ANSI}
		}
		return Palette{profile: termenv.Ascii}
	default:
		return Palette{profile: termenv.ANSI}
	}
}

// PlainPalette returns a Palette that leaves text undecorated.
func PlainPalette() Palette {
	return Palette{profile: termenv.Ascii}
}

// Bold renders s in bold.
func (p Palette) Bold(s string) string {
	return p.profile.String(s).Bold().String()
}

// Underline renders s underlined.
func (p Palette) Underline(s string) string {
	return p.profile.String(s).Underline().String()
}

// Cyan renders s with a cyan foreground.
func (p Palette) Cyan(s string) string {
	return p.profile.String(s).Foreground(termenv.ANSICyan).String()
}

// Green renders s with a green foreground.
func (p Palette) Green(s string) string {
	return p.profile.String(s).Foreground(termenv.ANSIGreen).String()
}

// Red renders s with a red foreground.
func (p Palette) Red(s string) string {
	return p.profile.String(s).Foreground(termenv.ANSIRed).String()
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
