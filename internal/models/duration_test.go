package models

import "testing"

// TestPlannedDurationTable pins every entry of the duration table, including
// the short Other/Easy entry.
func TestPlannedDurationTable(t *testing.T) {
	cases := []struct {
		category   Category
		difficulty Difficulty
		want       int
	}{
		{CategoryStrength, DifficultyEasy, 600},
		{CategoryStrength, DifficultyMedium, 1200},
		{CategoryStrength, DifficultyHard, 1800},
		{CategoryCardio, DifficultyEasy, 900},
		{CategoryCardio, DifficultyMedium, 1800},
		{CategoryCardio, DifficultyHard, 2700},
		{CategoryYoga, DifficultyEasy, 1200},
		{CategoryYoga, DifficultyMedium, 2400},
		{CategoryYoga, DifficultyHard, 3600},
		{CategoryStretching, DifficultyEasy, 600},
		{CategoryStretching, DifficultyMedium, 900},
		{CategoryStretching, DifficultyHard, 1200},
		{CategoryOther, DifficultyEasy, 10},
		{CategoryOther, DifficultyMedium, 1800},
		{CategoryOther, DifficultyHard, 3600},
	}
	for _, tc := range cases {
		for i := 0; i < 3; i++ {
			if got := PlannedDuration(tc.category, tc.difficulty); got != tc.want {
				t.Errorf("PlannedDuration(%s, %s) = %d, want %d", tc.category, tc.difficulty, got, tc.want)
			}
		}
	}
}

// TestPlannedDurationUnknown verifies values outside the enums yield zero
// rather than panicking on a missing map entry.
func TestPlannedDurationUnknown(t *testing.T) {
	if got := PlannedDuration("boxing", DifficultyEasy); got != 0 {
		t.Errorf("PlannedDuration(boxing) = %d, want 0", got)
	}
	if got := PlannedDuration(CategoryYoga, "extreme"); got != 0 {
		t.Errorf("PlannedDuration(yoga, extreme) = %d, want 0", got)
	}
}

// TestDurationTableOrder verifies the table lists all 15 entries in display order.
func TestDurationTableOrder(t *testing.T) {
	entries := DurationTable()
	if len(entries) != 15 {
		t.Fatalf("len(DurationTable()) = %d, want 15", len(entries))
	}
	first, last := entries[0], entries[len(entries)-1]
	if first.Category != CategoryStrength || first.Difficulty != DifficultyEasy || first.DurationSeconds != 600 {
		t.Errorf("first entry = %+v", first)
	}
	if last.Category != CategoryOther || last.Difficulty != DifficultyHard || last.DurationSeconds != 3600 {
		t.Errorf("last entry = %+v", last)
	}
}
