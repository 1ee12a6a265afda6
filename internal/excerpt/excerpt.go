// Package excerpt renders numbered source windows around a violation.
package excerpt

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/reachinspect/internal/source"
	"github.com/josephgoksu/reachinspect/internal/ui"
)

// DefaultThreshold is the number of lines shown on each side of the target.
const DefaultThreshold = 3

// Loader loads a file named in a violation location.
type Loader interface {
	ReadInstalled(name string) (string, error)
}

// Location is a violation position parsed from an "at file:line:column" line.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Formatter renders source excerpts.
type Formatter struct {
	loader    Loader
	pal       ui.Palette
	threshold int
}

// NewFormatter creates a Formatter. A non-positive threshold selects
// DefaultThreshold.
func NewFormatter(loader Loader, pal ui.Palette, threshold int) *Formatter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Formatter{loader: loader, pal: pal, threshold: threshold}
}

// Window returns the 1-based first and last line numbers shown for target
// in a file with total lines. Lines outside the file are dropped.
func Window(target, threshold, total int) (first, last int) {
	first = max(target-threshold, 1)
	last = min(target+threshold, total)
	return first, last
}

// Render loads loc.File and returns the header plus the numbered window,
// with the target line in bold.
func (f *Formatter) Render(loc Location) (string, error) {
	content, err := f.loader.ReadInstalled(loc.File)
	if err != nil {
		return "", fmt.Errorf("excerpt %s: %w", loc, err)
	}
	lines := source.SplitLines(content)

	var sb strings.Builder
	sb.WriteString("* Violation happened on these lines:\n")
	sb.WriteString("  [" + loc.String() + "]\n")

	first, last := Window(loc.Line, f.threshold, len(lines))
	for n := first; n <= last; n++ {
		text := lines[n-1]
		if n == loc.Line {
			text = f.pal.Bold(text)
		}
		sb.WriteString(f.pal.Red(fmt.Sprintf("%3d", n)) + "  " + text + "\n")
	}

	return sb.String(), nil
}
