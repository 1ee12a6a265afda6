// Package inspect turns the textual log of a smart-contract verifier into
// an annotated report. It reads the transcript one line at a time, tracks
// which section of the log it is in and renders each recognized line.
package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/josephgoksu/reachinspect/internal/catalog"
	"github.com/josephgoksu/reachinspect/internal/excerpt"
	"github.com/josephgoksu/reachinspect/internal/ui"
)

// LineReader returns a single 1-based line of a file named in a witness
// "from:" annotation.
type LineReader interface {
	Line(path string, n int) (string, error)
}

// Config wires an Inspector to its collaborators.
type Config struct {
	Out      io.Writer
	Palette  ui.Palette
	Catalog  *catalog.Catalog
	Excerpts *excerpt.Formatter
	Names    LineReader
	Logger   *slog.Logger
	// OnLine, when set, is called before each line is handled.
	OnLine func(n int, line string)
}

// Inspector renders one transcript. It is not reusable across transcripts.
type Inspector struct {
	cfg    Config
	out    reportWriter
	log    *slog.Logger
	phase  Phase
	vars   *VarTable
	lineNo int
}

// New creates an Inspector. A nil Catalog gets the built-in one.
func New(cfg Config) *Inspector {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.New(cfg.Palette)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		cfg:  cfg,
		out:  reportWriter{w: cfg.Out},
		log:  log,
		vars: NewVarTable(),
	}
}

// Phase returns the current phase.
func (in *Inspector) Phase() Phase {
	return in.phase
}

// Vars returns the variable table built so far.
func (in *Inspector) Vars() *VarTable {
	return in.vars
}

// Inspect reads the whole transcript from r and renders it.
func (in *Inspector) Inspect(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	return in.InspectString(ctx, string(data))
}

// InspectString renders a fully buffered transcript: the opening line,
// every transcript line in order, then the closing suffix.
func (in *Inspector) InspectString(ctx context.Context, transcript string) error {
	in.out.write(in.cfg.Palette.Cyan(startedLine), "\n")

	lines := strings.Split(transcript, "\n")
	in.log.Debug("inspecting transcript", "lines", len(lines))

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.Feed(line); err != nil {
			return err
		}
	}
	return in.Finish()
}

// Feed handles a single transcript line.
func (in *Inspector) Feed(line string) error {
	in.lineNo++
	if in.cfg.OnLine != nil {
		in.cfg.OnLine(in.lineNo, line)
	}

	prev := in.phase
	kind := Classify(prev, line)
	if err := in.handle(prev, kind, line); err != nil {
		in.log.Debug("fatal transcript line", "line", in.lineNo, "kind", kind, "error", err)
		return err
	}

	if next := Transition(prev, kind); next != prev {
		in.log.Debug("phase change", "line", in.lineNo, "from", prev, "to", next)
		in.phase = next
	}
	return in.out.err
}

// Finish closes the last theorem unit.
func (in *Inspector) Finish() error {
	switch in.phase {
	case PhaseVerifying:
		in.out.write("...", in.cfg.Palette.Green("OK"), "\n")
	case PhaseFailed:
		in.out.write(unitRule, "\n\n")
	}
	in.log.Debug("transcript done", "lines", in.lineNo, "phase", in.phase, "vars", in.vars.Len())
	return in.out.err
}

func (in *Inspector) handle(prev Phase, kind LineKind, line string) error {
	pal := in.cfg.Palette

	switch kind {
	case KindVerifying:
		in.closeUnit(prev)
		in.out.write("- " + strings.TrimSpace(line))

	case KindFailure:
		if prev == PhaseVerifying {
			in.out.write("...", pal.Red("FAILED"), "\n")
		}
		in.out.write("\n", pal.Red(line), "\n", violatedLine)

	case KindHonesty:
		token, ok := ParseHonesty(line)
		if !ok {
			return in.fatal(line, "honesty line without \"when <party>\"", nil)
		}
		in.out.write(in.cfg.Catalog.ExplainHonesty(token))

	case KindMessage:
		msg, ok := ParseMessage(line)
		if !ok {
			return in.fatal(line, "message line without \"msg: <text>\"", nil)
		}
		in.out.write(in.cfg.Catalog.ExplainMessage(msg))

	case KindLocation:
		loc, err := ParseLocation(line)
		if err != nil {
			return in.fatal(line, "malformed violation location", err)
		}
		text, err := in.cfg.Excerpts.Render(loc)
		if err != nil {
			return in.fatal(line, "cannot show violation source", err)
		}
		in.out.write(text)

	case KindWitnessHeader:
		in.out.write(renderBanner(pal))

	case KindFormalizationHeader:
		in.out.write(declarationLead)

	case KindProtect:
		p, _ := ParseProtect(line)
		in.vars.Declare(&Record{Handle: p.Handle, Type: p.Type, Accessor: p.Accessor})

	case KindCould:
		value, _ := ParseCould(line)
		rec, err := in.vars.Pending()
		if err != nil {
			return in.fatal(line, "witness value", err)
		}
		rec.Value, rec.HasValue = value, true

	case KindFrom:
		return in.resolveName(line)

	case KindDefine:
		d, _ := ParseDefine(line)
		in.vars.Declare(&Record{Handle: d.Handle, Statement: d.Statement, Name: d.Handle})

	case KindWould:
		value, _ := ParseWould(line)
		rec, err := in.vars.Pending()
		if err != nil {
			return in.fatal(line, "formalized value", err)
		}
		rec.Value, rec.HasValue = value, true
		in.out.write(explainWould(pal, rec, in.vars))
		in.vars.Settle()

	case KindProse:
		in.out.write(in.vars.Substitute(line), "\n")
	}
	return nil
}

// resolveName completes the pending witness record from the source line
// named in a "from:" annotation.
func (in *Inspector) resolveName(line string) error {
	from, _ := ParseFrom(line)
	rec, err := in.vars.Pending()
	if err != nil {
		return in.fatal(line, "witness source", err)
	}
	n, err := strconv.Atoi(from.Line)
	if err != nil {
		return in.fatal(line, "witness source line number", err)
	}
	src, err := in.cfg.Names.Line(from.File, n)
	if err != nil {
		return in.fatal(line, "witness source", err)
	}
	name, ok := ParseConstName(src)
	if !ok {
		return in.fatal(line, fmt.Sprintf("no const declaration at %s:%d", from.File, n), nil)
	}

	rec.Name = name
	in.out.write(explainDeclare(in.cfg.Palette, rec))
	in.vars.Settle()
	return nil
}

// closeUnit ends the previous theorem unit before a new one starts.
func (in *Inspector) closeUnit(prev Phase) {
	switch prev {
	case PhaseVerifying:
		in.out.write("...", in.cfg.Palette.Green("OK"), "\n")
	case PhaseFailed:
		in.out.write(unitRule, "\n\n")
	case PhaseFormalize:
		in.out.write(in.cfg.Palette.Red(sectionRule), "\n\n")
	}
}

func (in *Inspector) fatal(line, reason string, err error) error {
	return &FatalError{Line: in.lineNo, Text: line, Reason: reason, Err: err}
}

// reportWriter keeps the first write error and drops later writes.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) write(parts ...string) {
	for _, p := range parts {
		if rw.err != nil {
			return
		}
		if _, err := io.WriteString(rw.w, p); err != nil {
			rw.err = fmt.Errorf("write report: %w", err)
		}
	}
}
