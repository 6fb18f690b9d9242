package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
)

// WorkoutStore is the part of the history store the API needs.
type WorkoutStore interface {
	List() []models.WorkoutRecord
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
	Reload(ctx context.Context) error
}

// StatsSource provides the current statistics summary.
type StatsSource interface {
	Summary() stats.Summary
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  WorkoutStore
	stats  StatsSource
	locale models.Locale
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey leaves
// the destructive endpoints open, which is only sensible on loopback.
func New(store WorkoutStore, st StatsSource, apiKey string, locale models.Locale, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		stats:  st,
		locale: locale,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/durations", s.handleDurations)

	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Delete("/api/v1/workouts", s.handleClearWorkouts)
	})
}
