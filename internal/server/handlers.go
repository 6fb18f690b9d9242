package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
)

// statsResponse adds the human-readable totals shown on the statistics screen.
type statsResponse struct {
	stats.Summary
	TotalFormatted   string `json:"total_formatted"`
	AverageFormatted string `json:"average_formatted"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if !s.refresh(w, r) {
		return
	}
	records := s.store.List()
	if records == nil {
		records = []models.WorkoutRecord{}
	}
	history.SortNewestFirst(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	if err := s.store.Remove(r.Context(), workoutID); err != nil {
		s.log.Error("delete workout failed", "id", workoutID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearWorkouts(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.log.Error("clear workouts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.refresh(w, r) {
		return
	}
	sum := s.stats.Summary()
	writeJSON(w, http.StatusOK, statsResponse{
		Summary:          sum,
		TotalFormatted:   stats.FormatTotal(sum.TotalDurationSeconds, s.locale),
		AverageFormatted: stats.FormatAverage(sum, s.locale),
	})
}

func (s *Server) handleDurations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DurationTable())
}

// refresh reloads the history so writes from a running timer in another
// process are visible. It reports false after writing an error response.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) bool {
	if err := s.store.Reload(r.Context()); err != nil {
		s.log.Error("reload history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseLimit reads an optional positive limit; empty means no limit.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return n, nil
}
