package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/freetimer/internal/app"
	"github.com/claude/freetimer/internal/config"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/tui"
)

func newStartCmd(configPath *string) *cobra.Command {
	var category, difficulty, notes string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the terminal workout timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			sel, err := startSelection(cfg.Timer.Selection(), category, difficulty)
			if err != nil {
				return err
			}

			// The terminal belongs to the UI, so logs go to the file.
			logFile, err := app.OpenLogFile(cfg.Log.File)
			if err != nil {
				return err
			}
			defer logFile.Close()
			log := app.NewLogger(logFile, cfg.Log)
			log.Info("freetimer starting", "version", Version)

			ctx, stop := signalContext()
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(ctx, tui.Options{
				Store:          a.Store,
				Stats:          a.Stats,
				Selection:      sel,
				Notes:          notes,
				Locale:         a.Locale(),
				DriftThreshold: cfg.Timer.DriftThreshold,
				Notifications:  cfg.Notifications.Enabled,
				Bell:           cfg.Notifications.Bell,
			}, log)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "workout category: strength|cardio|yoga|stretching|other")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "difficulty: easy|medium|hard")
	cmd.Flags().StringVar(&notes, "notes", "", "notes saved with the workout")
	return cmd
}

// startSelection applies the command line flags over the configured default.
func startSelection(base models.Selection, category, difficulty string) (models.Selection, error) {
	if category != "" {
		c, err := models.ParseCategory(category)
		if err != nil {
			return base, fmt.Errorf("parsing --category: %w", err)
		}
		base.Category = c
	}
	if difficulty != "" {
		d, err := models.ParseDifficulty(difficulty)
		if err != nil {
			return base, fmt.Errorf("parsing --difficulty: %w", err)
		}
		base.Difficulty = d
	}
	return base, nil
}
