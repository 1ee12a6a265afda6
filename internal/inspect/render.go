package inspect

import (
	"strings"

	"github.com/josephgoksu/reachinspect/internal/ui"
)

const (
	startedLine     = "Verification started"
	violatedLine    = "Reach found a scenario where one of our security assumptions is violated\n"
	declarationLead = "\n  After these declarations:\n"
)

var (
	unitRule    = strings.Repeat("-", 80)
	sectionRule = strings.Repeat("=", 81)

	witnessBanner = []string{
		"=============================== VIOLATION WITNESS ===============================",
		"                  Here's a scenario where the violation happens                  ",
		sectionRule,
	}
)

// explainDeclare shows how a witness value was obtained and the source
// declaration it lands in.
func explainDeclare(pal ui.Palette, rec *Record) string {
	value := rec.DisplayValue()
	return "  " + pal.Bold(rec.Accessor) + " is called with " + pal.Cyan(value) + "\n" +
		"> const " + pal.Bold(rec.Name) + ": " + rec.Type + " = " + pal.Cyan(value) + "\n"
}

// explainWould restates a formalization declaration with earlier handles
// replaced by their names.
func explainWould(pal ui.Palette, rec *Record, vars *VarTable) string {
	return "\n  If we'd declare\n" +
		"> const " + pal.Bold(rec.Name) + " = " + vars.Substitute(rec.Statement) + "\n" +
		"  " + pal.Bold(rec.Name) + " would be " + pal.Cyan(rec.DisplayValue()) + "\n\n"
}

func renderBanner(pal ui.Palette) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, l := range witnessBanner {
		sb.WriteString(pal.Red(l) + "\n")
	}
	return sb.String()
}
