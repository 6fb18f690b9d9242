package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
)

// WorkoutLister provides the workout history. Reload is called before each
// read so records saved by other processes are included.
type WorkoutLister interface {
	List() []models.WorkoutRecord
	Reload(ctx context.Context) error
}

// SummarySource provides the current statistics summary.
type SummarySource interface {
	Summary() stats.Summary
}

// New creates an MCP server with all tools and resources registered.
func New(workouts WorkoutLister, summaries SummarySource, locale models.Locale, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FreeTimer", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FreeTimer workout history server. Query completed timer sessions, aggregate statistics, and the planned duration for each category and difficulty."),
	)

	h := &handlers{workouts: workouts, summaries: summaries, locale: locale, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkoutStats, Handler: h.getWorkoutStats},
		server.ServerTool{Tool: toolGetPlannedDuration, Handler: h.getPlannedDuration},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	workouts  WorkoutLister
	summaries SummarySource
	locale    models.Locale
	log       *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"freetimer://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The most recently completed workouts, newest first"),
	mcp.WithMIMEType("application/json"),
)
