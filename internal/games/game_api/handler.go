package game_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gametracker/internal/games"
	"gametracker/internal/logger"
	"gametracker/internal/models"
)

type Handler struct {
	GameService *games.GameService
	Logger      *logger.Logger
}

func NewHandler(service *games.GameService, log *logger.Logger) *Handler {
	return &Handler{GameService: service, Logger: log}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	gamesList, err := h.GameService.ListGames(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGames: %v", err))
		http.Error(w, "Could not list games", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gamesList)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	game, err := h.GameService.GetGame(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetGame: game not found: %v", err))
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req models.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	game, err := h.GameService.AddGame(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateGame: %v", err))
		http.Error(w, "Could not create game", http.StatusInternalServerError)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateGame: created game %d (%s)", game.ID, game.Title))
	writeJSON(w, http.StatusCreated, map[string]int64{"id": game.ID})
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	var req models.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.GameService.UpdateGame(r.Context(), id, req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateGame: %v", err))
		http.Error(w, "Could not update game", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	if err := h.GameService.DeleteGame(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteGame: %v", err))
		http.Error(w, "Could not delete game", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	achs, err := h.GameService.Achievements(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListAchievements: %v", err))
		http.Error(w, "Could not list achievements", http.StatusInternalServerError)
		return
	}
	if achs == nil {
		achs = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, achs)
}

func (h *Handler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	var ach models.Achievement
	if err := json.NewDecoder(r.Body).Decode(&ach); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.GameService.AddAchievement(r.Context(), id, ach)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateAchievement: %v", err))
		http.Error(w, "Could not create achievement", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": created.ID})
}

func (h *Handler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}
	achID, err := strconv.ParseInt(chi.URLParam(r, "achID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid achievement id", http.StatusBadRequest)
		return
	}

	var req struct {
		Unlocked bool `json:"unlocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.GameService.SetAchievementUnlocked(r.Context(), id, achID, req.Unlocked); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateAchievement: %v", err))
		http.Error(w, "Could not update achievement", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}
	achID, err := strconv.ParseInt(chi.URLParam(r, "achID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid achievement id", http.StatusBadRequest)
		return
	}

	if err := h.GameService.DeleteAchievement(r.Context(), id, achID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteAchievement: %v", err))
		http.Error(w, "Could not delete achievement", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func gameID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
