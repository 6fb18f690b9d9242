package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name is not recognized.
var ErrUnknownCategory = errors.New("unknown workout category")

// ErrUnknownDifficulty is returned when a difficulty name is not recognized.
var ErrUnknownDifficulty = errors.New("unknown workout difficulty")

// Category is the kind of workout.
type Category string

const (
	CategoryStrength   Category = "strength"
	CategoryCardio     Category = "cardio"
	CategoryYoga       Category = "yoga"
	CategoryStretching Category = "stretching"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryStrength, CategoryCardio, CategoryYoga, CategoryStretching, CategoryOther}

// Difficulty is the effort tier that determines the planned duration.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Locale selects the language of display labels.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

var categoryTitles = map[Locale]map[Category]string{
	LocaleEN: {
		CategoryStrength:   "Strength",
		CategoryCardio:     "Cardio",
		CategoryYoga:       "Yoga",
		CategoryStretching: "Stretching",
		CategoryOther:      "Other",
	},
	LocaleRU: {
		CategoryStrength:   "Силовая тренировка",
		CategoryCardio:     "Кардио",
		CategoryYoga:       "Йога",
		CategoryStretching: "Растяжка",
		CategoryOther:      "Другое",
	},
}

var difficultyTitles = map[Locale]map[Difficulty]string{
	LocaleEN: {
		DifficultyEasy:   "Easy",
		DifficultyMedium: "Medium",
		DifficultyHard:   "Hard",
	},
	LocaleRU: {
		DifficultyEasy:   "Легко",
		DifficultyMedium: "Средне",
		DifficultyHard:   "Сложно",
	},
}

// categoryNames maps lowercased ids and localized titles to categories.
var categoryNames = buildNames(categoryTitles)

// difficultyNames maps lowercased ids and localized titles to difficulties.
var difficultyNames = buildNames(difficultyTitles)

func buildNames[K ~string](titles map[Locale]map[K]string) map[string]K {
	names := make(map[string]K)
	for _, byKey := range titles {
		for key, title := range byKey {
			names[strings.ToLower(string(key))] = key
			names[strings.ToLower(title)] = key
		}
	}
	return names
}

// ParseCategory accepts an id ("cardio") or any localized title ("Кардио").
func ParseCategory(raw string) (Category, error) {
	if c, ok := categoryNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// ParseDifficulty accepts an id ("medium") or any localized title ("Средне").
func ParseDifficulty(raw string) (Difficulty, error) {
	if d, ok := difficultyNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
}

// ParseLocale returns LocaleEN for anything it does not recognize.
func ParseLocale(raw string) Locale {
	if Locale(strings.ToLower(strings.TrimSpace(raw))) == LocaleRU {
		return LocaleRU
	}
	return LocaleEN
}

// Title returns the display name of the category in the given locale.
func (c Category) Title(loc Locale) string {
	if t, ok := categoryTitles[ParseLocale(string(loc))][c]; ok {
		return t
	}
	return string(c)
}

// Emoji returns the icon shown next to the category.
func (c Category) Emoji() string {
	switch c {
	case CategoryStrength:
		return "💪"
	case CategoryCardio:
		return "🏃"
	case CategoryYoga:
		return "🧘"
	case CategoryStretching:
		return "🤸"
	default:
		return "🏋️"
	}
}

// Title returns the display name of the difficulty in the given locale.
func (d Difficulty) Title(loc Locale) string {
	if t, ok := difficultyTitles[ParseLocale(string(loc))][d]; ok {
		return t
	}
	return string(d)
}

// Emoji returns the traffic-light icon for the difficulty.
func (d Difficulty) Emoji() string {
	switch d {
	case DifficultyEasy:
		return "🟢"
	case DifficultyMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

// Selection is the category and difficulty chosen for the next session.
type Selection struct {
	Category   Category
	Difficulty Difficulty
}

// Label composes the stored category label, e.g. "Cardio (Medium)".
func (s Selection) Label(loc Locale) string {
	return fmt.Sprintf("%s (%s)", s.Category.Title(loc), s.Difficulty.Title(loc))
}

// PlannedDuration returns the planned session length for the selection.
func (s Selection) PlannedDuration() int {
	return PlannedDuration(s.Category, s.Difficulty)
}

// LabelGroup returns the grouping key of a stored label: everything before
// the first "(" with surrounding whitespace trimmed.
func LabelGroup(label string) string {
	if i := strings.Index(label, "("); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}

// ParseLabel recovers the selection from a stored label. Labels written in
// any supported locale are recognized.
func ParseLabel(label string) (Selection, bool) {
	c, err := ParseCategory(LabelGroup(label))
	if err != nil {
		return Selection{}, false
	}
	open := strings.Index(label, "(")
	closing := strings.LastIndex(label, ")")
	if open < 0 || closing <= open {
		return Selection{}, false
	}
	d, err := ParseDifficulty(label[open+1 : closing])
	if err != nil {
		return Selection{}, false
	}
	return Selection{Category: c, Difficulty: d}, true
}
