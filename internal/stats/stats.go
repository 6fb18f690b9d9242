package stats

import (
	"fmt"
	"sort"
	"sync"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
)

// DefaultRecent is the number of recent workouts kept in a Summary.
const DefaultRecent = 3

// Summary holds aggregate statistics about the workout history.
type Summary struct {
	TotalCount             int                    `json:"total_count"`
	TotalDurationSeconds   int                    `json:"total_duration_sec"`
	AverageDurationSeconds int                    `json:"average_duration_sec"`
	CountByCategory        map[string]int         `json:"count_by_category"`
	ByCategory             []CategoryStat         `json:"by_category"`
	Recent                 []models.WorkoutRecord `json:"recent"`
}

// CategoryStat holds summary stats for a single category group.
type CategoryStat struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	TotalDuration int    `json:"total_duration_sec"`
}

// Compute derives a Summary from records. recentN <= 0 uses DefaultRecent.
func Compute(records []models.WorkoutRecord, recentN int) Summary {
	if recentN <= 0 {
		recentN = DefaultRecent
	}
	s := Summary{
		TotalCount:      len(records),
		CountByCategory: CountByCategory(records),
		Recent:          Recent(records, recentN),
	}
	for _, r := range records {
		s.TotalDurationSeconds += r.DurationSeconds
	}
	if s.TotalCount > 0 {
		s.AverageDurationSeconds = s.TotalDurationSeconds / s.TotalCount
	}
	s.ByCategory = byCategory(records)
	return s
}

// Recent returns the n most recently completed records, newest first.
func Recent(records []models.WorkoutRecord, n int) []models.WorkoutRecord {
	sorted := append(make([]models.WorkoutRecord, 0, len(records)), records...)
	history.SortNewestFirst(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CountByCategory counts records per label group ("Йога (Сложно)" counts as "Йога").
func CountByCategory(records []models.WorkoutRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Group()]++
	}
	return counts
}

func byCategory(records []models.WorkoutRecord) []CategoryStat {
	idx := make(map[string]int)
	out := make([]CategoryStat, 0)
	for _, r := range records {
		g := r.Group()
		i, ok := idx[g]
		if !ok {
			i = len(out)
			idx[g] = i
			out = append(out, CategoryStat{Name: g})
		}
		out[i].Count++
		out[i].TotalDuration += r.DurationSeconds
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FormatTotal renders seconds as "1h 5m" or "45m".
func FormatTotal(seconds int, loc models.Locale) string {
	h, m := unitNames(loc)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d%s %d%s", hours, h, minutes, m)
	}
	return fmt.Sprintf("%d%s", minutes, m)
}

// FormatAverage renders the average duration in whole minutes.
func FormatAverage(s Summary, loc models.Locale) string {
	_, m := unitNames(loc)
	return fmt.Sprintf("%d%s", s.AverageDurationSeconds/60, m)
}

func unitNames(loc models.Locale) (string, string) {
	if models.ParseLocale(string(loc)) == models.LocaleRU {
		return "ч", "м"
	}
	return "h", "m"
}

// Source is anything that pushes record snapshots to observers.
type Source interface {
	Subscribe(fn history.Observer) (unsubscribe func())
}

// Aggregator keeps a Summary current by recomputing it on every store change.
type Aggregator struct {
	mu          sync.RWMutex
	summary     Summary
	recentN     int
	unsubscribe func()
}

// NewAggregator subscribes to src and computes the initial Summary.
func NewAggregator(src Source, recentN int) *Aggregator {
	a := &Aggregator{recentN: recentN}
	a.unsubscribe = src.Subscribe(a.recompute)
	return a
}

func (a *Aggregator) recompute(records []models.WorkoutRecord) {
	s := Compute(records, a.recentN)
	a.mu.Lock()
	a.summary = s
	a.mu.Unlock()
}

// Summary returns the latest statistics.
func (a *Aggregator) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary
}

// Close stops listening to the source.
func (a *Aggregator) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}
