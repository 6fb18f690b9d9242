package models

// plannedDurations is the fixed duration table in seconds. Other/Easy is a
// deliberately short entry used for quick manual runs.
var plannedDurations = map[Category]map[Difficulty]int{
	CategoryStrength: {
		DifficultyEasy:   600,
		DifficultyMedium: 1200,
		DifficultyHard:   1800,
	},
	CategoryCardio: {
		DifficultyEasy:   900,
		DifficultyMedium: 1800,
		DifficultyHard:   2700,
	},
	CategoryYoga: {
		DifficultyEasy:   1200,
		DifficultyMedium: 2400,
		DifficultyHard:   3600,
	},
	CategoryStretching: {
		DifficultyEasy:   600,
		DifficultyMedium: 900,
		DifficultyHard:   1200,
	},
	CategoryOther: {
		DifficultyEasy:   10,
		DifficultyMedium: 1800,
		DifficultyHard:   3600,
	},
}

// PlannedDuration returns the planned length in seconds for a category and
// difficulty. Values outside the enums yield 0.
func PlannedDuration(c Category, d Difficulty) int {
	return plannedDurations[c][d]
}

// DurationEntry is one row of the duration table.
type DurationEntry struct {
	Category        Category   `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationSeconds int        `json:"duration_seconds"`
}

// DurationTable returns all entries in display order.
func DurationTable() []DurationEntry {
	entries := make([]DurationEntry, 0, len(Categories)*len(Difficulties))
	for _, c := range Categories {
		for _, d := range Difficulties {
			entries = append(entries, DurationEntry{Category: c, Difficulty: d, DurationSeconds: PlannedDuration(c, d)})
		}
	}
	return entries
}
