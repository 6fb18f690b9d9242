package timer

import (
	"context"
	"time"

	"github.com/claude/freetimer/internal/models"
)

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// TickSource fires tick periodically until the returned stop func is called.
// Implementations must deliver tick on the goroutine that owns the Engine.
type TickSource interface {
	Start(interval time.Duration, tick func()) (stop func())
}

// AlertHandle cancels a scheduled alert.
type AlertHandle interface {
	Cancel()
}

// Alerter delivers completion alerts outside the engine.
type Alerter interface {
	Schedule(fireIn time.Duration, title, body string) (AlertHandle, error)
	Fire(title, body string) error
}

// Recorder persists finished sessions.
type Recorder interface {
	Append(ctx context.Context, rec models.WorkoutRecord) error
}
