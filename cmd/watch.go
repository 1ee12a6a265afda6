package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josephgoksu/reachinspect/internal/watch"
	"github.com/spf13/cobra"
)

var watchDelay time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <transcript>",
	Short: "Explain a transcript file again every time it changes",
	Long: `Watch renders the transcript once, then renders it again after each change
to the file. Every run starts from a fresh state. Stop with Ctrl+C.

  reach compile > verify.log 2>&1 &
  reachinspect watch verify.log`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(watch.Config{
			Path:   args[0],
			Delay:  watchDelay,
			Logger: newLogger(cmd.ErrOrStderr()).With("component", "watch"),
			Run: func(ctx context.Context, path string) error {
				return renderPath(ctx, cmd, path)
			},
		})
		if err != nil {
			return err
		}
		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDelay, "delay", watch.DefaultDelay, "quiet period before a changed file is rendered again")
}
