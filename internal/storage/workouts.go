package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/google/uuid"
)

// Compile-time check: *DB satisfies history.Backend.
var _ history.Backend = (*DB)(nil)

// timeLayout has a fixed-width fraction so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InsertWorkout inserts a workout record.
func (db *DB) InsertWorkout(ctx context.Context, rec models.WorkoutRecord) error {
	var notes sql.NullString
	if rec.Notes != nil {
		notes = sql.NullString{String: *rec.Notes, Valid: true}
	}
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO workouts (id, category, duration_seconds, completed_at, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Category, rec.DurationSeconds,
		rec.CompletedAt.UTC().Format(timeLayout), notes)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// DeleteWorkout deletes the workout with the given id. A missing id is not an error.
func (db *DB) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	if _, err := db.SQL.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// DeleteAllWorkouts deletes every workout.
func (db *DB) DeleteAllWorkouts(ctx context.Context) error {
	if _, err := db.SQL.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return fmt.Errorf("deleting workouts: %w", err)
	}
	return nil
}

// ListWorkouts retrieves every workout, newest first.
func (db *DB) ListWorkouts(ctx context.Context) ([]models.WorkoutRecord, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, category, duration_seconds, completed_at, notes
		 FROM workouts
		 ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

func scanWorkoutRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.WorkoutRecord, error) {
	var result []models.WorkoutRecord
	for rows.Next() {
		var (
			w           models.WorkoutRecord
			id          string
			completedAt string
			notes       sql.NullString
		)
		if err := rows.Scan(&id, &w.Category, &w.DurationSeconds, &completedAt, &notes); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing workout id %q: %w", id, err)
		}
		w.ID = parsedID
		w.CompletedAt, err = time.Parse(timeLayout, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at %q: %w", completedAt, err)
		}
		if notes.Valid {
			n := notes.String
			w.Notes = &n
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
