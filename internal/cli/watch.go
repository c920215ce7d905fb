package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shipout/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redeploy automatically whenever the build output changes",
	Long: `Watch observes the build output directory and runs a deployment after
each burst of changes settles. Stop it with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		watcher, err := watch.New(a.logger, watchDebounce)
		if err != nil {
			return err
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		printInfo("watching %s, deploying to %s", a.cfg.Paths.Source, a.cfg.Paths.Dest)

		err = watcher.Run(ctx, a.cfg.Paths.Source, func() error {
			result, deployErr := a.engine.Deploy(ctx, a.deployRequest(false))
			if deployErr != nil {
				printError("deploy failed: %v", deployErr)
				return deployErr
			}
			printSuccess("deployed %d paths", len(result.Manifest.Items))
			return nil
		})
		if errors.Is(err, context.Canceled) {
			printInfo("stopped")
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before redeploying after a change")
}
