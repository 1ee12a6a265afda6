/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/reachinspect/internal/catalog"
	"github.com/josephgoksu/reachinspect/internal/excerpt"
	"github.com/josephgoksu/reachinspect/internal/inspect"
	"github.com/josephgoksu/reachinspect/internal/logger"
	"github.com/josephgoksu/reachinspect/internal/source"
	"github.com/josephgoksu/reachinspect/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"

	// appFs backs every file the CLI reads.
	appFs afero.Fs = afero.NewOsFs()
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"config":        "config",
	"verbose":       "verbose",
	"base-dir":      "source.baseDir",
	"context-lines": "source.contextLines",
	"color":         "output.color",
	"catalog":       "catalog.file",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reachinspect [transcript]",
	Short: "reachinspect explains Reach verification output in plain English.",
	Long: `reachinspect reads the output of the Reach compiler's verification step and
rewrites it as an annotated report: passed theorems are summarized, and a
failed one is explained with the violated assumption, the offending source
lines and the concrete values the verifier found.

Pass a transcript file, or "-" (or nothing) to read standard input:

  reach compile 2>&1 | reachinspect`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		logger.SetCommand(cmd.CommandPath())
		return InitConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		return renderPath(cmd.Context(), cmd, path)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		HandleFatalError(userMessage(err), err)
	}
}

// GetVersion returns the current version of reachinspect.
func GetVersion() string {
	return version
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.reachinspect/.reachinspect.yaml, $HOME/.reachinspect.yaml or ./.reachinspect.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.String("base-dir", "", "directory contract sources are resolved against (default is the executable's directory)")
	flags.Int("context-lines", excerpt.DefaultThreshold, "lines of source shown around a violation")
	flags.String("color", string(ui.ColorAlways), "color output: always, never or auto")
	flags.String("catalog", "", "YAML file with extra honesty and message explanations")

	_ = bindFlags(flags)
}

// bindFlags binds the persistent flags to Viper. It is repeated before each
// run so that a reset Viper still sees them.
func bindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newLogger returns the diagnostic logger. Diagnostics never go to the
// report stream.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if GetConfig().Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadCatalog builds the explanation catalog and merges the configured overlay.
func loadCatalog(pal ui.Palette) (*catalog.Catalog, error) {
	cat := catalog.New(pal)
	file := GetConfig().Catalog.File
	if file == "" {
		return cat, nil
	}
	overlay, err := catalog.LoadOverlay(appFs, file)
	if err != nil {
		return nil, err
	}
	cat.Merge(overlay)
	return cat, nil
}

// openTranscript opens path, or the command's input for "-".
func openTranscript(cmd *cobra.Command, path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := appFs.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("open transcript: %w", err)
	}
	return f, path, nil
}

// renderPath explains the transcript at path and writes the report to the
// command's output.
func renderPath(ctx context.Context, cmd *cobra.Command, path string) error {
	r, name, err := openTranscript(cmd, path)
	if err != nil {
		return err
	}
	defer r.Close()
	return renderTranscript(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), r, name)
}

// renderTranscript wires one Inspector to the configured collaborators and
// runs it over r.
func renderTranscript(ctx context.Context, out, errOut io.Writer, r io.Reader, name string) error {
	cfg := GetConfig()

	runID := uuid.NewString()
	log := newLogger(errOut).With("run_id", runID)
	logger.SetRun(runID, name)

	mode, err := ui.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return err
	}
	pal := ui.NewPalette(mode, out)

	cat, err := loadCatalog(pal)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	src := source.NewReader(appFs, cfg.Source.BaseDir)
	in := inspect.New(inspect.Config{
		Out:      out,
		Palette:  pal,
		Catalog:  cat,
		Excerpts: excerpt.NewFormatter(src, pal, cfg.Source.ContextLines),
		Names:    src,
		Logger:   log,
		OnLine:   logger.SetLastLine,
	})

	log.Debug("render started", "transcript", name, "base_dir", cfg.Source.BaseDir, "color", mode)
	start := time.Now()
	err = in.Inspect(ctx, r)
	log.Debug("render finished", "duration", time.Since(start), "phase", in.Phase(), "vars", in.Vars().Len())
	return err
}
