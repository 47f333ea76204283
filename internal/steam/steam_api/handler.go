package steam_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gametracker/internal/logger"
	"gametracker/internal/steam"
)

type Handler struct {
	Client *steam.Client
	Logger *logger.Logger
}

func NewHandler(client *steam.Client, log *logger.Logger) *Handler {
	return &Handler{Client: client, Logger: log}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, []steam.SearchResult{})
		return
	}

	results, err := h.Client.SearchGames(r.Context(), query)
	if err != nil {
		// The search box degrades gracefully when Steam is down.
		h.Logger.Warn("API", fmt.Sprintf("Search: steam lookup failed: %v", err))
		writeJSON(w, http.StatusOK, []steam.SearchResult{})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseInt(chi.URLParam(r, "appID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid app id", http.StatusBadRequest)
		return
	}

	achs, err := h.Client.GetPlayerAchievements(r.Context(), appID)
	if err != nil {
		h.logSteamError("Achievements", err)
		writeJSON(w, statusFor(err), map[string]string{"error": "Steam achievements unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, achs)
}

func (h *Handler) GameDetails(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseInt(chi.URLParam(r, "appID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid app id", http.StatusBadRequest)
		return
	}

	details, err := h.Client.GetGameDetails(r.Context(), appID)
	if err != nil {
		h.logSteamError("GameDetails", err)
		writeJSON(w, statusFor(err), map[string]string{"error": "Steam game details unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) logSteamError(op string, err error) {
	h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
}

func statusFor(err error) int {
	if errors.Is(err, steam.ErrSourceInvalidData) {
		return http.StatusBadGateway
	}
	return http.StatusServiceUnavailable
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
