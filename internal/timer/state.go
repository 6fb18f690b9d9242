package timer

import (
	"fmt"

	"github.com/claude/freetimer/internal/models"
)

// State is the lifecycle phase of the current session.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Snapshot is the read-only view of the engine handed to the presentation layer.
type Snapshot struct {
	State                   State            `json:"state"`
	Selection               models.Selection `json:"selection"`
	Label                   string           `json:"label"`
	Notes                   string           `json:"notes,omitempty"`
	PlannedSeconds          int              `json:"planned_sec"`
	ElapsedSeconds          int              `json:"elapsed_sec"`
	RemainingSeconds        int              `json:"remaining_sec"`
	Progress                float64          `json:"progress"`
	FormattedRemaining      string           `json:"formatted_remaining"`
	FormattedElapsed        string           `json:"formatted_elapsed"`
	Suspended               bool             `json:"suspended"`
	NeedsSaveDecision       bool             `json:"needs_save_decision"`
	NeedsCompletionDecision bool             `json:"needs_completion_decision"`
}

// FormatClock renders seconds as HH:MM:SS from one hour up, MM:SS below.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func progress(elapsed, planned int) float64 {
	if planned <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(planned)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
