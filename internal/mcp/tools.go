package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
)

const defaultWorkoutLimit = 20

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List completed workouts newest first. Each entry has the category label (e.g. 'Cardio (Medium)'), actual duration in seconds, completion time and optional notes."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
	mcp.WithString("category", mcp.Description("Filter by category group, the label text before the parenthesis (e.g. 'Cardio', 'Йога')")),
)

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Aggregate workout statistics: total count, total and average duration, counts per category and the three most recent workouts."),
)

var toolGetPlannedDuration = mcp.NewTool("get_planned_duration",
	mcp.WithDescription("Planned session length in seconds for a category and difficulty."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Workout category"), mcp.Enum("strength", "cardio", "yoga", "stretching", "other")),
	mcp.WithString("difficulty", mcp.Required(), mcp.Description("Workout difficulty"), mcp.Enum("easy", "medium", "hard")),
)

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultWorkoutLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be a positive integer"), nil
	}
	group := strings.TrimSpace(req.GetString("category", ""))
	if err := h.workouts.Reload(ctx); err != nil {
		h.log.Error("reload history failed", "error", err)
		return mcp.NewToolResultError("loading workouts failed"), nil
	}

	workouts := filterByGroup(h.workouts.List(), group)
	if workouts == nil {
		workouts = []models.WorkoutRecord{}
	}
	history.SortNewestFirst(workouts)
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.workouts.Reload(ctx); err != nil {
		h.log.Error("reload history failed", "error", err)
		return mcp.NewToolResultError("loading workouts failed"), nil
	}
	sum := h.summaries.Summary()
	result, err := mcp.NewToolResultJSON(map[string]any{
		"summary":           sum,
		"total_formatted":   stats.FormatTotal(sum.TotalDurationSeconds, h.locale),
		"average_formatted": stats.FormatAverage(sum, h.locale),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlannedDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawCategory, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category parameter is required"), nil
	}
	rawDifficulty, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError("difficulty parameter is required"), nil
	}

	c, err := models.ParseCategory(rawCategory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := models.ParseDifficulty(rawDifficulty)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sel := models.Selection{Category: c, Difficulty: d}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"category":         c,
		"difficulty":       d,
		"label":            sel.Label(h.locale),
		"duration_seconds": sel.PlannedDuration(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// filterByGroup keeps records whose label group matches group, ignoring case.
// Localized titles of the same category also match, so "cardio" finds
// "Кардио (Средне)".
func filterByGroup(records []models.WorkoutRecord, group string) []models.WorkoutRecord {
	if group == "" {
		return records
	}
	want, knownErr := models.ParseCategory(group)
	out := make([]models.WorkoutRecord, 0, len(records))
	for _, r := range records {
		g := r.Group()
		if strings.EqualFold(g, group) {
			out = append(out, r)
			continue
		}
		if knownErr == nil {
			if c, err := models.ParseCategory(g); err == nil && c == want {
				out = append(out, r)
			}
		}
	}
	return out
}
