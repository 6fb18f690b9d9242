package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/claude/freetimer/internal/models"
	"github.com/google/uuid"
)

// ErrClosed is returned by mutating calls after Close.
var ErrClosed = errors.New("history store closed")

// Backend is the durable persistence behind a Store.
type Backend interface {
	InsertWorkout(ctx context.Context, rec models.WorkoutRecord) error
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
	DeleteAllWorkouts(ctx context.Context) error
	ListWorkouts(ctx context.Context) ([]models.WorkoutRecord, error)
	Close() error
}

// Observer receives a snapshot of all records after every successful change.
// It runs while the store is locked and must not call back into the Store.
type Observer func(records []models.WorkoutRecord)

// Store is the in-memory view of the workout history. Every mutation is
// written to the backend first; the view and observers are only updated
// after the write succeeded.
type Store struct {
	mu        sync.RWMutex
	backend   Backend
	log       *slog.Logger
	records   []models.WorkoutRecord
	observers map[int]Observer
	nextObs   int
	closed    bool
}

// Open loads all records from the backend and returns a ready Store.
func Open(ctx context.Context, backend Backend, log *slog.Logger) (*Store, error) {
	records, err := backend.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	log.Debug("history loaded", "records", len(records))
	return &Store{
		backend:   backend,
		log:       log,
		records:   records,
		observers: make(map[int]Observer),
	}, nil
}

// Append persists one record and adds it to the view.
func (s *Store) Append(ctx context.Context, rec models.WorkoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.InsertWorkout(ctx, rec); err != nil {
		s.log.Error("history append failed", "id", rec.ID, "error", err)
		return fmt.Errorf("appending workout: %w", err)
	}
	s.records = append(s.records, rec)
	s.log.Info("workout saved", "id", rec.ID, "category", rec.Category, "duration_sec", rec.DurationSeconds)
	s.notifyLocked()
	return nil
}

// Remove deletes the record with the given id from the backend, whether or
// not this view holds it. An id stored nowhere is a no-op.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.DeleteWorkout(ctx, id); err != nil {
		s.log.Error("history remove failed", "id", id, "error", err)
		return fmt.Errorf("removing workout: %w", err)
	}
	idx := slices.IndexFunc(s.records, func(r models.WorkoutRecord) bool { return r.ID == id })
	if idx < 0 {
		s.log.Debug("remove of id not in view", "id", id)
		return nil
	}
	s.records = slices.Delete(s.records, idx, idx+1)
	s.log.Info("workout deleted", "id", id)
	s.notifyLocked()
	return nil
}

// Reload replaces the view with what the backend currently holds, picking up
// writes made by other processes sharing the database.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	records, err := s.backend.ListWorkouts(ctx)
	if err != nil {
		return fmt.Errorf("reloading history: %w", err)
	}
	s.records = records
	s.notifyLocked()
	return nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.DeleteAllWorkouts(ctx); err != nil {
		s.log.Error("history clear failed", "error", err)
		return fmt.Errorf("clearing workouts: %w", err)
	}
	s.records = nil
	s.log.Info("history cleared")
	s.notifyLocked()
	return nil
}

// List returns a copy of all records in no particular order.
func (s *Store) List() []models.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WorkoutRecord(nil), s.records...)
}

// Subscribe registers fn and immediately calls it with the current records.
// The returned func removes the observer.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	fn(append([]models.WorkoutRecord(nil), s.records...))
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Close drops all observers and closes the backend. It is safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.observers = make(map[int]Observer)
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("closing history backend: %w", err)
	}
	return nil
}

func (s *Store) notifyLocked() {
	for _, fn := range s.observers {
		fn(append([]models.WorkoutRecord(nil), s.records...))
	}
}

// SortNewestFirst orders records by CompletedAt descending, in place.
func SortNewestFirst(records []models.WorkoutRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})
}
