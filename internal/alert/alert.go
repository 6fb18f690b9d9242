// Package alert delivers workout completion alerts. The Scheduler implements
// timer.Alerter with per-alert cancellation so a paused or stopped timer never
// produces a stale banner.
package alert

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/freetimer/internal/timer"
)

var _ timer.Alerter = (*Scheduler)(nil)

// Notifier presents an alert to the user.
type Notifier interface {
	Notify(title, body string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string) error

func (f NotifierFunc) Notify(title, body string) error { return f(title, body) }

// Scheduler fires alerts after a delay on a timer goroutine.
type Scheduler struct {
	notifier Notifier
	log      *slog.Logger
}

// NewScheduler creates a Scheduler delivering to n.
func NewScheduler(n Notifier, log *slog.Logger) *Scheduler {
	return &Scheduler{notifier: n, log: log}
}

// handle guards a pending alert; Cancel wins over a concurrently firing timer.
type handle struct {
	mu        sync.Mutex
	cancelled bool
	t         *time.Timer
}

func (h *handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = true
	if h.t != nil {
		h.t.Stop()
	}
}

// Schedule arranges for the alert to be delivered after fireIn.
func (s *Scheduler) Schedule(fireIn time.Duration, title, body string) (timer.AlertHandle, error) {
	if s.notifier == nil {
		return nil, fmt.Errorf("scheduling alert: no notifier")
	}
	if fireIn < 0 {
		fireIn = 0
	}
	h := &handle{}
	h.mu.Lock()
	h.t = time.AfterFunc(fireIn, func() {
		h.mu.Lock()
		cancelled := h.cancelled
		h.mu.Unlock()
		if cancelled {
			return
		}
		if err := s.notifier.Notify(title, body); err != nil {
			s.log.Warn("deferred alert failed", "error", err)
		}
	})
	h.mu.Unlock()
	s.log.Debug("alert scheduled", "fire_in", fireIn)
	return h, nil
}

// Fire delivers the alert immediately.
func (s *Scheduler) Fire(title, body string) error {
	if s.notifier == nil {
		return fmt.Errorf("firing alert: no notifier")
	}
	if err := s.notifier.Notify(title, body); err != nil {
		return fmt.Errorf("firing alert: %w", err)
	}
	return nil
}

// Multi fans an alert out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Notify(title, body string) error {
	var first error
	for _, n := range m {
		if err := n.Notify(title, body); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogNotifier records alerts in the application log.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(title, body string) error {
	n.Log.Info("alert", "title", title, "body", body)
	return nil
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	W io.Writer
}

func (n BellNotifier) Notify(_, _ string) error {
	if _, err := io.WriteString(n.W, "\a"); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

// Disabled is a Notifier that drops every alert, used when notifications are
// turned off in the config.
type Disabled struct{}

func (Disabled) Notify(_, _ string) error { return nil }
