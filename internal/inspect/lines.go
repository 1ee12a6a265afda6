package inspect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/josephgoksu/reachinspect/internal/excerpt"
)

// Section markers.
const (
	markerVerifying     = "Verifying"
	markerFailed        = "Verification failed:"
	markerWitness       = "Violation Witness"
	markerFormalization = "Theorem Formalization"
	markerWhen          = "when"
	markerMsg           = "msg:"
	markerAt            = "at"
	markerSource        = ".rsh"
)

// LineKind is the result of classifying one transcript line.
type LineKind int

const (
	KindNone LineKind = iota
	KindVerifying
	KindFailure
	KindHonesty
	KindMessage
	KindLocation
	KindWitnessHeader
	KindFormalizationHeader
	KindProtect
	KindCould
	KindFrom
	KindDefine
	KindWould
	KindProse
)

var kindNames = map[LineKind]string{
	KindNone:                "none",
	KindVerifying:           "verifying",
	KindFailure:             "failure",
	KindHonesty:             "honesty",
	KindMessage:             "message",
	KindLocation:            "location",
	KindWitnessHeader:       "witness-header",
	KindFormalizationHeader: "formalization-header",
	KindProtect:             "protect",
	KindCould:               "could",
	KindFrom:                "from",
	KindDefine:              "define",
	KindWould:               "would",
	KindProse:               "prose",
}

func (k LineKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var (
	protectPattern   = regexp.MustCompile(`const (.*) = protect<(.*)>\((.*)\)`)
	couldPattern     = regexp.MustCompile(`.*could = (.*)`)
	fromPattern      = regexp.MustCompile(`.*from: ([^:]*):(\w*)`)
	definePattern    = regexp.MustCompile(`const\s+(\S+)\s*=\s*(.*);`)
	wouldPattern     = regexp.MustCompile(`.*would be (.*)`)
	constNamePattern = regexp.MustCompile(`const (\w+)\s*=`)
)

// Classify decides what a line is, given the phase it arrives in. The
// checks run in a fixed order and the first match wins.
func Classify(p Phase, line string) LineKind {
	if strings.Contains(line, markerVerifying) {
		return KindVerifying
	}
	if strings.Contains(line, markerFailed) {
		return KindFailure
	}
	if p == PhaseFailed {
		switch {
		case strings.Contains(line, markerWhen):
			return KindHonesty
		case strings.Contains(line, markerMsg):
			return KindMessage
		case strings.Contains(line, markerAt) && strings.Contains(line, markerSource):
			return KindLocation
		}
	}
	if strings.Contains(line, markerWitness) {
		return KindWitnessHeader
	}
	if strings.Contains(line, markerFormalization) {
		return KindFormalizationHeader
	}
	switch p {
	case PhaseWitness:
		switch {
		case protectPattern.MatchString(line):
			return KindProtect
		case couldPattern.MatchString(line):
			return KindCould
		case fromPattern.MatchString(line):
			return KindFrom
		}
	case PhaseFormalize:
		switch {
		case definePattern.MatchString(line):
			return KindDefine
		case wouldPattern.MatchString(line):
			return KindWould
		case strings.TrimSpace(line) != "":
			return KindProse
		}
	}
	return KindNone
}

// Protect is a witness declaration: const <handle> = protect<<type>>(<accessor>).
type Protect struct {
	Handle   string
	Type     string
	Accessor string
}

// ParseProtect matches a witness declaration line.
func ParseProtect(line string) (Protect, bool) {
	m := protectPattern.FindStringSubmatch(line)
	if m == nil {
		return Protect{}, false
	}
	return Protect{Handle: m[1], Type: m[2], Accessor: stripQuotes(m[3])}, true
}

// ParseCould extracts the value from a "could = <value>" line.
func ParseCould(line string) (string, bool) {
	m := couldPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// From is the source position in a witness "from: <file>:<line>" annotation.
type From struct {
	File string
	Line string
}

// ParseFrom matches a "from:" annotation. Anything after the line number
// is ignored.
func ParseFrom(line string) (From, bool) {
	m := fromPattern.FindStringSubmatch(line)
	if m == nil {
		return From{}, false
	}
	return From{File: m[1], Line: m[2]}, true
}

// Define is a formalization declaration: const <handle> = <statement>;.
type Define struct {
	Handle    string
	Statement string
}

// ParseDefine matches a formalization declaration line.
func ParseDefine(line string) (Define, bool) {
	m := definePattern.FindStringSubmatch(line)
	if m == nil {
		return Define{}, false
	}
	return Define{Handle: m[1], Statement: m[2]}, true
}

// ParseWould extracts the value from a "would be <value>" line.
func ParseWould(line string) (string, bool) {
	m := wouldPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseConstName extracts <name> from a source line "const <name> = ...".
func ParseConstName(line string) (string, bool) {
	m := constNamePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseHonesty returns the token after "when " up to the next whitespace.
func ParseHonesty(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, markerWhen+" ")
	if !ok {
		return "", false
	}
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		rest = rest[:i]
	}
	return rest, true
}

// ParseMessage returns the text after "msg: " (up to any repeated
// marker) with the first two double quotes removed.
func ParseMessage(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, markerMsg+" ")
	if !ok {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, markerMsg+" ")
	return stripQuotes(rest), true
}

// ParseLocation reads "<file>:<line>:<column>" from the text between the
// first and second "at" in the line.
func ParseLocation(line string) (excerpt.Location, error) {
	parts := strings.Split(line, markerAt)
	if len(parts) < 2 {
		return excerpt.Location{}, fmt.Errorf("no %q in location line", markerAt)
	}
	fields := strings.Split(parts[1], ":")
	if len(fields) < 3 {
		return excerpt.Location{}, fmt.Errorf("location %q has %d of 3 fields", parts[1], len(fields))
	}
	for i := range fields[:3] {
		fields[i] = strings.TrimSpace(fields[i])
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return excerpt.Location{}, fmt.Errorf("location line number %q: %w", fields[1], err)
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return excerpt.Location{}, fmt.Errorf("location column %q: %w", fields[2], err)
	}
	return excerpt.Location{File: fields[0], Line: n, Column: col}, nil
}

// stripQuotes removes the first two double quotes wherever they occur.
// This is not pair trimming: `a"b"c` becomes `abc`, and `"x` becomes `x`.
func stripQuotes(s string) string {
	return strings.Replace(s, `"`, "", 2)
}
