package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gametracker/internal/logger"
	"gametracker/internal/stats"
)

type Handler struct {
	Service *stats.Service
	Logger  *logger.Logger
}

func NewHandler(service *stats.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	libraryStats, err := h.Service.GetLibraryStats(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetStats: %v", err))
		http.Error(w, "Could not load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(libraryStats)
}
