package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/josephgoksu/reachinspect/internal/logger"
	"github.com/josephgoksu/reachinspect/internal/ui"
	"github.com/spf13/cobra"
)

var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "List the crash logs written by earlier runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := logger.ListCrashLogs()
		if err != nil {
			return fmt.Errorf("list crash logs: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, ui.StyleSuccess.Render("No crash logs in "+GetConfig().Crash.Dir))
			return nil
		}

		table := &ui.Table{Headers: []string{"#", "Log"}}
		for i, path := range logs {
			table.Rows = append(table.Rows, []string{fmt.Sprint(i + 1), filepath.Base(path)})
		}
		fmt.Fprintln(out, ui.StyleSectionTitle.Render("Crash logs in "+GetConfig().Crash.Dir))
		fmt.Fprint(out, table.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crashesCmd)
}
