package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
)

const recentWorkoutsLimit = 10

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if err := h.workouts.Reload(ctx); err != nil {
		return nil, fmt.Errorf("reloading workouts: %w", err)
	}
	workouts := h.workouts.List()
	if workouts == nil {
		workouts = []models.WorkoutRecord{}
	}
	history.SortNewestFirst(workouts)
	if len(workouts) > recentWorkoutsLimit {
		workouts = workouts[:recentWorkoutsLimit]
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
