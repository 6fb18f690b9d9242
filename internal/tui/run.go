package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/freetimer/internal/alert"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/timer"
)

// Store is the record store seen by the terminal UI: it browses history and
// receives finished sessions.
type Store interface {
	History
	timer.Recorder
}

// Options configures a terminal session.
type Options struct {
	Store          Store
	Stats          StatsSource
	Selection      models.Selection
	Notes          string
	Locale         models.Locale
	DriftThreshold time.Duration
	Notifications  bool
	Bell           bool
}

// Run shows the timer until the user quits.
func Run(ctx context.Context, opts Options, log *slog.Logger) error {
	var program *tea.Program

	// Send blocks until the event loop receives the message, and Fire runs
	// inside Update, so banners are posted from their own goroutine.
	banner := alert.NotifierFunc(func(title, body string) error {
		go program.Send(bannerMsg{title: title, body: body})
		return nil
	})
	var notifier alert.Notifier = alert.Disabled{}
	if opts.Notifications {
		sinks := alert.Multi{banner, alert.LogNotifier{Log: log}}
		if opts.Bell {
			sinks = append(sinks, alert.BellNotifier{W: os.Stderr})
		}
		notifier = sinks
	}

	ticks := newTeaTicks()
	engine := timer.New(timer.Options{
		Ticks:     ticks,
		Alerts:    alert.NewScheduler(notifier, log),
		Records:   opts.Store,
		Selection: opts.Selection,
		Locale:    opts.Locale,
	}, log)
	engine.SetNotes(opts.Notes)

	model := newModel(ctx, modelOptions{
		Engine:         engine,
		Ticks:          ticks,
		Store:          opts.Store,
		Stats:          opts.Stats,
		Locale:         opts.Locale,
		DriftThreshold: opts.DriftThreshold,
	}, log)

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
