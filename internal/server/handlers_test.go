package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
)

type memBackend struct {
	records  []models.WorkoutRecord
	fail     bool
	listFail bool
}

func (m *memBackend) InsertWorkout(_ context.Context, rec models.WorkoutRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memBackend) DeleteWorkout(_ context.Context, id uuid.UUID) error {
	if m.fail {
		return errors.New("database is locked")
	}
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memBackend) DeleteAllWorkouts(context.Context) error {
	if m.fail {
		return errors.New("database is locked")
	}
	m.records = nil
	return nil
}

func (m *memBackend) ListWorkouts(context.Context) ([]models.WorkoutRecord, error) {
	if m.listFail {
		return nil, errors.New("database is locked")
	}
	return append([]models.WorkoutRecord(nil), m.records...), nil
}

func (m *memBackend) Close() error { return nil }

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	srv     *Server
	store   *history.Store
	backend *memBackend
	records []models.WorkoutRecord
}

func newFixture(t *testing.T, apiKey string) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := &memBackend{}
	recs := []models.WorkoutRecord{
		models.NewWorkoutRecord("Cardio (Medium)", 600, base, ""),
		models.NewWorkoutRecord("Yoga (Hard)", 1200, base.Add(48*time.Hour), "flow"),
		models.NewWorkoutRecord("Cardio (Easy)", 1800, base.Add(24*time.Hour), ""),
	}
	backend.records = recs
	store, err := history.Open(context.Background(), backend, log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	agg := stats.NewAggregator(store, stats.DefaultRecent)
	t.Cleanup(agg.Close)
	return &fixture{
		srv:     New(store, agg, apiKey, models.LocaleEN, log),
		store:   store,
		backend: backend,
		records: recs,
	}
}

func (f *fixture) do(method, target, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

// TestListWorkoutsNewestFirst verifies the history endpoint sorts by
// completion time descending and honors the limit.
func TestListWorkoutsNewestFirst(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodGet, "/api/v1/workouts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []models.WorkoutRecord
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d workouts, want 3", len(got))
	}
	if got[0].Category != "Yoga (Hard)" || got[2].Category != "Cardio (Medium)" {
		t.Errorf("order = %s, %s, %s", got[0].Category, got[1].Category, got[2].Category)
	}

	rec = f.do(http.MethodGet, "/api/v1/workouts?limit=1", "")
	got = nil
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got) != 1 || got[0].ID != f.records[1].ID {
		t.Errorf("limit=1 returned %+v", got)
	}
}

// TestListWorkoutsBadLimit verifies an invalid limit is a 400.
func TestListWorkoutsBadLimit(t *testing.T) {
	f := newFixture(t, "")
	for _, q := range []string{"0", "-2", "ten"} {
		if rec := f.do(http.MethodGet, "/api/v1/workouts?limit="+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", q, rec.Code)
		}
	}
}

// TestListWorkoutsEmpty verifies an empty history encodes as [] rather than null.
func TestListWorkoutsEmpty(t *testing.T) {
	f := newFixture(t, "")
	if err := f.store.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec := f.do(http.MethodGet, "/api/v1/workouts", "")
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want []", body)
	}
}

// TestDeleteWorkout verifies deleting by id removes the record and updates stats.
func TestDeleteWorkout(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodDelete, "/api/v1/workouts/"+f.records[0].ID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if n := len(f.store.List()); n != 2 {
		t.Errorf("store has %d records, want 2", n)
	}

	var sum statsResponse
	json.NewDecoder(f.do(http.MethodGet, "/api/v1/stats", "").Body).Decode(&sum)
	if sum.TotalCount != 2 || sum.TotalDurationSeconds != 3000 {
		t.Errorf("stats after delete = %+v", sum.Summary)
	}
}

// TestDeleteWorkoutUnknownID verifies deleting a missing record succeeds and
// leaves the history unchanged.
func TestDeleteWorkoutUnknownID(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodDelete, "/api/v1/workouts/"+uuid.NewString(), "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(f.backend.records) != 3 || len(f.store.List()) != 3 {
		t.Errorf("backend=%d view=%d, want 3", len(f.backend.records), len(f.store.List()))
	}
}

// TestWritesFromOtherProcessesVisible verifies a record written to the shared
// database after the server started is listed, counted and deletable.
func TestWritesFromOtherProcessesVisible(t *testing.T) {
	f := newFixture(t, "")
	external := models.NewWorkoutRecord("Strength (Easy)", 125, base.Add(72*time.Hour), "")
	f.backend.records = append(f.backend.records, external)

	var got []models.WorkoutRecord
	json.NewDecoder(f.do(http.MethodGet, "/api/v1/workouts", "").Body).Decode(&got)
	if len(got) != 4 || got[0].ID != external.ID {
		t.Fatalf("list = %+v, want the external record first", got)
	}
	var sum statsResponse
	json.NewDecoder(f.do(http.MethodGet, "/api/v1/stats", "").Body).Decode(&sum)
	if sum.TotalCount != 4 || sum.TotalDurationSeconds != 3725 {
		t.Errorf("stats = %+v", sum.Summary)
	}

	f.backend.records = append(f.backend.records, models.NewWorkoutRecord("Yoga (Easy)", 60, base, ""))
	unseen := f.backend.records[len(f.backend.records)-1]
	if rec := f.do(http.MethodDelete, "/api/v1/workouts/"+unseen.ID.String(), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	for _, r := range f.backend.records {
		if r.ID == unseen.ID {
			t.Fatal("record still stored after delete")
		}
	}
}

// TestReadsFailWhenReloadFails verifies list and stats answer 500 rather than
// a stale view when the database cannot be read.
func TestReadsFailWhenReloadFails(t *testing.T) {
	f := newFixture(t, "")
	f.backend.listFail = true
	for _, target := range []string{"/api/v1/workouts", "/api/v1/stats"} {
		if rec := f.do(http.MethodGet, target, ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", target, rec.Code)
		}
	}
}

// TestDeleteWorkoutInvalidID verifies a malformed id is rejected.
func TestDeleteWorkoutInvalidID(t *testing.T) {
	f := newFixture(t, "")
	if rec := f.do(http.MethodDelete, "/api/v1/workouts/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestDeleteBackendFailure verifies storage errors surface as 500 and the
// history is left intact.
func TestDeleteBackendFailure(t *testing.T) {
	f := newFixture(t, "")
	f.backend.fail = true
	if rec := f.do(http.MethodDelete, "/api/v1/workouts/"+f.records[0].ID.String(), ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("delete status = %d, want 500", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/v1/workouts", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("clear status = %d, want 500", rec.Code)
	}
	if n := len(f.store.List()); n != 3 {
		t.Errorf("store has %d records, want 3", n)
	}
}

// TestClearRequiresKey verifies destructive endpoints are guarded when an
// API key is configured while reads stay open.
func TestClearRequiresKey(t *testing.T) {
	f := newFixture(t, "secret")
	if rec := f.do(http.MethodDelete, "/api/v1/workouts", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/v1/workouts", "wrong"); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/v1/workouts", ""); rec.Code != http.StatusOK {
		t.Errorf("read without key: status = %d, want 200", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/v1/workouts", "secret"); rec.Code != http.StatusNoContent {
		t.Errorf("right key: status = %d, want 204", rec.Code)
	}
	if n := len(f.store.List()); n != 0 {
		t.Errorf("store has %d records after clear, want 0", n)
	}
}

// TestStats verifies totals, average, grouping and the formatted strings.
func TestStats(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var sum statsResponse
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if sum.TotalCount != 3 || sum.TotalDurationSeconds != 3600 || sum.AverageDurationSeconds != 1200 {
		t.Errorf("summary = %+v", sum.Summary)
	}
	if sum.CountByCategory["Cardio"] != 2 || sum.CountByCategory["Yoga"] != 1 {
		t.Errorf("count_by_category = %v", sum.CountByCategory)
	}
	if sum.TotalFormatted != "1h 0m" || sum.AverageFormatted != "20m" {
		t.Errorf("formatted = %q / %q", sum.TotalFormatted, sum.AverageFormatted)
	}
	if len(sum.Recent) != 3 || sum.Recent[0].Category != "Yoga (Hard)" {
		t.Errorf("recent = %+v", sum.Recent)
	}
}

// TestDurations verifies the duration table is served in full.
func TestDurations(t *testing.T) {
	f := newFixture(t, "")
	var table []models.DurationEntry
	json.NewDecoder(f.do(http.MethodGet, "/api/v1/durations", "").Body).Decode(&table)
	if len(table) != 15 {
		t.Fatalf("got %d entries, want 15", len(table))
	}
	for _, e := range table {
		if e.Category == models.CategoryOther && e.Difficulty == models.DifficultyEasy && e.DurationSeconds != 10 {
			t.Errorf("other/easy = %d, want 10", e.DurationSeconds)
		}
	}
}
