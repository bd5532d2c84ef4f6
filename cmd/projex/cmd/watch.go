package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/projex-snippets/projex/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync at startup and again whenever the content changes",
	Long: `Run an auto sync after startup_delay, then watch the content root and
resync silently after every burst of changes. Runs until interrupted.

The startup sync honors auto_sync; change-triggered syncs always run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig(cmd)
		svc := newService(cfg, stderrNotifier{})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watch.New(watch.Config{
			Root:         cfg.ContentRoot,
			StartupDelay: cfg.StartupDelay,
			Logger:       cfg.Logger,
		}, func(_ context.Context, initial bool) {
			if initial {
				if !cfg.AutoSyncEnabled() {
					cfg.Logger.Info("auto sync disabled, waiting for changes")
					return
				}
				if _, err := svc.AutoSync(cfg.ContentRoot); err != nil {
					cfg.Logger.Error("auto sync failed", "err", err)
				}
				return
			}
			if _, err := svc.SyncInstructions(cfg.ContentRoot, true); err != nil {
				cfg.Logger.Error("sync failed", "err", err)
			}
		})

		if err := w.Run(ctx); err != nil {
			Fatal("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
