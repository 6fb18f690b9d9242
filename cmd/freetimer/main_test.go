package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/freetimer/internal/app"
	"github.com/claude/freetimer/internal/config"
	"github.com/claude/freetimer/internal/models"
)

// runCmd executes the root command with args against a temporary database.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

// seed stores records in the database named by FREETIMER_DB_PATH.
func seed(t *testing.T, records ...models.WorkoutRecord) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ctx := context.Background()
	a, err := app.New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	defer a.Close()
	for _, r := range records {
		if err := a.Store.Append(ctx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("FREETIMER_DB_PATH", filepath.Join(t.TempDir(), "workouts.db"))
}

// TestDurationsCommand verifies the duration table lists every combination.
func TestDurationsCommand(t *testing.T) {
	out, err := runCmd(t, "durations")
	if err != nil {
		t.Fatalf("durations: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if want := 1 + len(models.Categories)*len(models.Difficulties); len(lines) != want {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), want, out)
	}
	if !strings.Contains(out, "30:00") || !strings.Contains(out, "00:10") {
		t.Errorf("durations output missing entries:\n%s", out)
	}
}

// TestHistoryCommands verifies list, delete and clear against a real database.
func TestHistoryCommands(t *testing.T) {
	useTempDB(t)
	now := time.Now()
	older := models.NewWorkoutRecord("Yoga (Easy)", 600, now.Add(-time.Hour), "")
	newer := models.NewWorkoutRecord("Cardio (Medium)", 125, now, "tempo")
	seed(t, older, newer)

	out, err := runCmd(t, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if strings.Index(out, "Cardio (Medium)") > strings.Index(out, "Yoga (Easy)") {
		t.Errorf("expected newest first:\n%s", out)
	}
	if !strings.Contains(out, "02:05") || !strings.Contains(out, "tempo") {
		t.Errorf("list output missing fields:\n%s", out)
	}

	out, err = runCmd(t, "history", "list", "--limit", "1")
	if err != nil {
		t.Fatalf("history list --limit: %v", err)
	}
	if strings.Contains(out, "Yoga") {
		t.Errorf("limit not applied:\n%s", out)
	}

	if _, err := runCmd(t, "history", "delete", newer.ID.String()); err != nil {
		t.Fatalf("history delete: %v", err)
	}
	out, _ = runCmd(t, "history", "list")
	if strings.Contains(out, "Cardio") || !strings.Contains(out, "Yoga") {
		t.Errorf("after delete:\n%s", out)
	}

	out, err = runCmd(t, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	if !strings.Contains(out, "cleared 1 workouts") {
		t.Errorf("clear output = %q", out)
	}
	out, _ = runCmd(t, "history", "list")
	if strings.TrimSpace(out) != "no workouts" {
		t.Errorf("after clear = %q", out)
	}
}

// TestHistoryDeleteInvalidID verifies a malformed id is rejected.
func TestHistoryDeleteInvalidID(t *testing.T) {
	useTempDB(t)
	if _, err := runCmd(t, "history", "delete", "not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

// TestStatsCommand verifies totals and averages are printed.
func TestStatsCommand(t *testing.T) {
	useTempDB(t)
	now := time.Now()
	seed(t,
		models.NewWorkoutRecord("Strength (Easy)", 600, now.Add(-2*time.Hour), ""),
		models.NewWorkoutRecord("Strength (Medium)", 1200, now.Add(-time.Hour), ""),
		models.NewWorkoutRecord("Yoga (Medium)", 1800, now, ""),
	)
	out, err := runCmd(t, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Workouts: 3", "1h 0m", "20", "Strength", "Recent:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

// TestStartSelection verifies flags override the configured selection.
func TestStartSelection(t *testing.T) {
	base := models.Selection{Category: models.CategoryCardio, Difficulty: models.DifficultyMedium}
	tests := []struct {
		name       string
		category   string
		difficulty string
		want       models.Selection
		wantErr    bool
	}{
		{"defaults", "", "", base, false},
		{"category", "yoga", "", models.Selection{Category: models.CategoryYoga, Difficulty: models.DifficultyMedium}, false},
		{"both", "strength", "hard", models.Selection{Category: models.CategoryStrength, Difficulty: models.DifficultyHard}, false},
		{"bad category", "swimming", "", base, true},
		{"bad difficulty", "", "extreme", base, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := startSelection(base, tt.category, tt.difficulty)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestMigrateCommand verifies migrate creates the database file.
func TestMigrateCommand(t *testing.T) {
	useTempDB(t)
	if _, err := runCmd(t, "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// TestNewestFirst verifies listings are ordered by completion time whatever
// order the store returns, and that the limit keeps the newest.
func TestNewestFirst(t *testing.T) {
	now := time.Now()
	mid := models.NewWorkoutRecord("Yoga (Easy)", 600, now.Add(-time.Hour), "")
	old := models.NewWorkoutRecord("Other (Easy)", 10, now.Add(-2*time.Hour), "")
	latest := models.NewWorkoutRecord("Cardio (Medium)", 125, now, "")

	got := newestFirst([]models.WorkoutRecord{mid, old, latest}, 0)
	if len(got) != 3 || got[0].ID != latest.ID || got[1].ID != mid.ID || got[2].ID != old.ID {
		t.Errorf("order = %s, %s, %s", got[0].Category, got[1].Category, got[2].Category)
	}
	got = newestFirst([]models.WorkoutRecord{old, mid, latest}, 2)
	if len(got) != 2 || got[0].ID != latest.ID || got[1].ID != mid.ID {
		t.Errorf("limit 2 = %+v", got)
	}
}
