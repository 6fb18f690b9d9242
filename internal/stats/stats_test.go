package stats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/google/uuid"
)

var base = time.Date(2026, 5, 10, 7, 0, 0, 0, time.UTC)

func rec(label string, sec int, offset time.Duration) models.WorkoutRecord {
	return models.NewWorkoutRecord(label, sec, base.Add(offset), "")
}

// TestComputeTotals verifies count, total and integer average.
func TestComputeTotals(t *testing.T) {
	records := []models.WorkoutRecord{
		rec("Strength (Easy)", 600, 0),
		rec("Strength (Medium)", 1200, time.Hour),
		rec("Cardio (Medium)", 1800, 2*time.Hour),
	}
	s := Compute(records, 0)
	if s.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", s.TotalCount)
	}
	if s.TotalDurationSeconds != 3600 {
		t.Errorf("TotalDurationSeconds = %d, want 3600", s.TotalDurationSeconds)
	}
	if s.AverageDurationSeconds != 1200 {
		t.Errorf("AverageDurationSeconds = %d, want 1200", s.AverageDurationSeconds)
	}
}

// TestComputeEmpty verifies an empty history yields zeros rather than a
// division by zero.
func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, 3)
	if s.TotalCount != 0 || s.TotalDurationSeconds != 0 || s.AverageDurationSeconds != 0 {
		t.Errorf("Compute(nil) = %+v", s)
	}
	if len(s.Recent) != 0 || len(s.CountByCategory) != 0 {
		t.Errorf("Compute(nil) recent=%d groups=%d", len(s.Recent), len(s.CountByCategory))
	}
}

// TestComputeEmptyEncodesArrays verifies an empty summary marshals its lists
// as [] and its counts as {} so API clients never see null.
func TestComputeEmptyEncodesArrays(t *testing.T) {
	data, err := json.Marshal(Compute(nil, 3))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"recent":[]`, `"by_category":[]`, `"count_by_category":{}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary JSON %s missing %s", data, want)
		}
	}
}

// TestAverageTruncates verifies the average uses truncating integer division.
func TestAverageTruncates(t *testing.T) {
	s := Compute([]models.WorkoutRecord{rec("a", 10, 0), rec("b", 11, 0)}, 0)
	if s.AverageDurationSeconds != 10 {
		t.Errorf("AverageDurationSeconds = %d, want 10", s.AverageDurationSeconds)
	}
}

// TestCountByCategory verifies difficulty suffixes are stripped before grouping.
func TestCountByCategory(t *testing.T) {
	records := []models.WorkoutRecord{
		rec("Йога (Сложно)", 3600, 0),
		rec("Йога (Легко)", 1200, 0),
		rec("Cardio (Hard)", 2700, 0),
	}
	counts := CountByCategory(records)
	if counts["Йога"] != 2 {
		t.Errorf(`counts["Йога"] = %d, want 2`, counts["Йога"])
	}
	if counts["Cardio"] != 1 {
		t.Errorf(`counts["Cardio"] = %d, want 1`, counts["Cardio"])
	}
	if len(counts) != 2 {
		t.Errorf("len(counts) = %d, want 2", len(counts))
	}

	s := Compute(records, 0)
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != "Йога" || s.ByCategory[0].TotalDuration != 4800 {
		t.Errorf("ByCategory = %+v", s.ByCategory)
	}
}

// TestRecent verifies the newest records come first and n limits the result.
func TestRecent(t *testing.T) {
	records := []models.WorkoutRecord{
		rec("old", 1, 0),
		rec("newest", 1, 3*time.Hour),
		rec("mid", 1, time.Hour),
		rec("newer", 1, 2*time.Hour),
	}
	got := Recent(records, 3)
	want := []string{"newest", "newer", "mid"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i] {
			t.Errorf("Recent[%d] = %q, want %q", i, got[i].Category, want[i])
		}
	}
	if records[0].Category != "old" {
		t.Error("Recent reordered its input")
	}
}

// TestFormatTotal verifies hour/minute rendering in both locales.
func TestFormatTotal(t *testing.T) {
	cases := []struct {
		sec  int
		loc  models.Locale
		want string
	}{
		{0, models.LocaleEN, "0m"},
		{2700, models.LocaleEN, "45m"},
		{3900, models.LocaleEN, "1h 5m"},
		{3900, models.LocaleRU, "1ч 5м"},
	}
	for _, tc := range cases {
		if got := FormatTotal(tc.sec, tc.loc); got != tc.want {
			t.Errorf("FormatTotal(%d, %s) = %q, want %q", tc.sec, tc.loc, got, tc.want)
		}
	}
	if got := FormatAverage(Summary{AverageDurationSeconds: 1250}, models.LocaleEN); got != "20m" {
		t.Errorf("FormatAverage = %q, want 20m", got)
	}
}

type memBackend struct{ rows []models.WorkoutRecord }

func (b *memBackend) InsertWorkout(_ context.Context, r models.WorkoutRecord) error {
	b.rows = append(b.rows, r)
	return nil
}
func (b *memBackend) DeleteWorkout(context.Context, uuid.UUID) error { return nil }
func (b *memBackend) DeleteAllWorkouts(context.Context) error {
	b.rows = nil
	return nil
}
func (b *memBackend) ListWorkouts(context.Context) ([]models.WorkoutRecord, error) {
	return b.rows, nil
}
func (b *memBackend) Close() error { return nil }

// TestAggregatorFollowsStore verifies the summary is recomputed after every
// store mutation without an explicit refresh.
func TestAggregatorFollowsStore(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, &memBackend{rows: []models.WorkoutRecord{rec("Yoga (Easy)", 600, 0)}},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	agg := NewAggregator(store, 3)
	defer agg.Close()

	if got := agg.Summary().TotalCount; got != 1 {
		t.Fatalf("initial TotalCount = %d, want 1", got)
	}
	if err := store.Append(ctx, rec("Cardio (Hard)", 1200, time.Hour)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s := agg.Summary()
	if s.TotalCount != 2 || s.TotalDurationSeconds != 1800 {
		t.Errorf("after append: %+v", s)
	}
	if s.Recent[0].Category != "Cardio (Hard)" {
		t.Errorf("Recent[0] = %q", s.Recent[0].Category)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := agg.Summary().TotalCount; got != 0 {
		t.Errorf("after clear TotalCount = %d, want 0", got)
	}
}
