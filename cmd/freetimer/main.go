package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claude/freetimer/internal/app"
	"github.com/claude/freetimer/internal/config"
	"github.com/claude/freetimer/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "freetimer",
		Short:         "Workout timer with a local history",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")

	root.AddCommand(newStartCmd(&configPath))
	root.AddCommand(newHistoryCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newDurationsCmd())
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMCPCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	return root
}

// loadApp loads the config and opens the application, logging to w.
func loadApp(ctx context.Context, configPath string, w io.Writer) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, app.NewLogger(w, cfg.Log))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := app.NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err := storage.RunMigrations(cfg.Database.Path); err != nil {
				return err
			}
			log.Info("migrations applied", "path", cfg.Database.Path)
			return nil
		},
	}
}
