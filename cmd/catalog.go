package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/reachinspect/internal/catalog"
	"github.com/josephgoksu/reachinspect/internal/ui"
	"github.com/spf13/cobra"
)

const catalogPanelWidth = 80

var catalogFull bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the honesty categories and failure messages reachinspect can explain",
	Long: `Catalog lists every honesty category and failed-assumption message that has a
dedicated explanation, including the entries of the overlay file given with
--catalog. Anything else in a transcript gets a generic explanation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(ui.PlainPalette())
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		out := cmd.OutOrStdout()
		if catalogFull {
			fmt.Fprint(out, renderCatalogPanels(cat))
			return nil
		}
		fmt.Fprint(out, renderCatalogTable(cat))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogFull, "full", false, "show each explanation in full")
}

type catalogEntry struct {
	kind, key, origin, text string
}

// catalogEntries returns every entry of cat, honesty categories first.
func catalogEntries(cat *catalog.Catalog) []catalogEntry {
	builtin := catalog.New(ui.PlainPalette())
	var entries []catalogEntry

	for _, key := range cat.HonestyKeys() {
		text, _ := cat.Honesty(key)
		own, _ := builtin.Honesty(key)
		entries = append(entries, catalogEntry{"honesty", key, origin(own, text), text})
	}
	for _, key := range cat.MessageKeys() {
		text, _ := cat.Message(key)
		own, _ := builtin.Message(key)
		entries = append(entries, catalogEntry{"message", key, origin(own, text), text})
	}
	return entries
}

func origin(builtin, text string) string {
	if builtin == text {
		return "builtin"
	}
	return "overlay"
}

func renderCatalogTable(cat *catalog.Catalog) string {
	table := &ui.Table{
		Headers:  []string{"Kind", "Key", "Source", "Explanation"},
		MaxWidth: 60,
	}
	for _, e := range catalogEntries(cat) {
		table.Rows = append(table.Rows, []string{e.kind, e.key, e.origin, summary(e.text)})
	}
	return table.Render()
}

func renderCatalogPanels(cat *catalog.Catalog) string {
	var sb strings.Builder
	for _, e := range catalogEntries(cat) {
		title := fmt.Sprintf("%s: %s (%s)", e.kind, e.key, e.origin)
		sb.WriteString(ui.RenderInfoPanel(title, strings.TrimRight(e.text, "\n"), catalogPanelWidth))
		sb.WriteString("\n")
	}
	return sb.String()
}

// summary returns the first line of an explanation without its bullet.
func summary(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimPrefix(first, "* ")
}
