package snapshot_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gametracker/internal/logger"
	"gametracker/internal/models"
	"gametracker/internal/snapshot"
)

const defaultHistoryDays = 30

// RunLogReader exposes the recorder's run log for operational visibility.
type RunLogReader interface {
	RecentRunLogs(ctx context.Context, limit int) ([]models.TrackerRunLog, error)
}

type Handler struct {
	Recorder *snapshot.Recorder
	History  *snapshot.HistoryService
	RunLogs  RunLogReader
	Logger   *logger.Logger
}

func NewHandler(rec *snapshot.Recorder, history *snapshot.HistoryService,
	runLogs RunLogReader, log *logger.Logger) *Handler {
	return &Handler{Recorder: rec, History: history, RunLogs: runLogs, Logger: log}
}

// RunSnapshot triggers one reconciliation cycle. A concurrent run is
// reported as 409 with a "skipped" body, distinct from failure.
func (h *Handler) RunSnapshot(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "RunSnapshot: manual cycle requested")
	result := h.Recorder.Run(r.Context(), snapshot.TriggerManual)

	status := http.StatusOK
	switch result.Status {
	case snapshot.StatusSkipped:
		status = http.StatusConflict
	case snapshot.StatusFailed:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

func (h *Handler) GetDailyHistory(w http.ResponseWriter, r *http.Request) {
	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	entries, err := h.History.DailyHistory(r.Context(), days)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetDailyHistory: %v", err))
		http.Error(w, "Could not load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) GetGamesPlayedOnDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	breakdown, err := h.History.GamesPlayedOnDate(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrBadDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, snapshot.ErrNoSnapshot):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.Logger.Error("API", fmt.Sprintf("GetGamesPlayedOnDate: %v", err))
			http.Error(w, "Could not load breakdown", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) GetRunLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.RunLogs.RecentRunLogs(r.Context(), 50)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRunLogs: %v", err))
		http.Error(w, "Could not load run log", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.TrackerRunLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
