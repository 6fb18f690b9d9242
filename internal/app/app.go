// Package app wires the configured components into a running application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/freetimer/internal/config"
	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
	"github.com/claude/freetimer/internal/storage"
)

// App holds the shared components built from one configuration.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Store  *history.Store
	Stats  *stats.Aggregator
}

// New applies migrations, opens the database and loads the history.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := storage.RunMigrations(cfg.Database.Path); err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("database ready", "path", cfg.Database.Path)

	return &App{
		Config: cfg,
		Log:    log,
		Store:  store,
		Stats:  stats.NewAggregator(store, stats.DefaultRecent),
	}, nil
}

// Locale returns the configured display locale.
func (a *App) Locale() models.Locale {
	return models.ParseLocale(a.Config.Locale)
}

// Close releases the store and its database.
func (a *App) Close() error {
	a.Stats.Close()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("closing app: %w", err)
	}
	return nil
}

// NewLogger builds the text logger used by every component.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// OpenLogFile opens path for appending, creating its directory.
func OpenLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("opening log file: no path configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
