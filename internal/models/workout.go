package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutRecord is a completed session as stored in the history.
type WorkoutRecord struct {
	ID              uuid.UUID `json:"id"`
	Category        string    `json:"category"`
	DurationSeconds int       `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
	Notes           *string   `json:"notes,omitempty"`
}

// NewWorkoutRecord builds a record with a fresh id. Empty notes are stored as nil.
func NewWorkoutRecord(label string, durationSeconds int, completedAt time.Time, notes string) WorkoutRecord {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	rec := WorkoutRecord{
		ID:              uuid.New(),
		Category:        label,
		DurationSeconds: durationSeconds,
		CompletedAt:     completedAt,
	}
	if notes != "" {
		rec.Notes = &notes
	}
	return rec
}

// Group returns the category label without its difficulty suffix.
func (r WorkoutRecord) Group() string {
	return LabelGroup(r.Category)
}
