package game_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gametracker/internal/models"
)

func (h *Handler) ListCompletionist(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	comps, err := h.GameService.Completionist(r.Context(), id, r.URL.Query().Get("sort"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListCompletionist: %v", err))
		http.Error(w, "Could not list completionist entries", http.StatusInternalServerError)
		return
	}
	if comps == nil {
		comps = []models.CompletionistAchievement{}
	}
	writeJSON(w, http.StatusOK, comps)
}

func (h *Handler) CreateCompletionist(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}

	var comp models.CompletionistAchievement
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.GameService.AddCompletionist(r.Context(), id, comp)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCompletionist: %v", err))
		http.Error(w, "Could not create completionist entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": created.ID})
}

func (h *Handler) UpdateCompletionist(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}
	compID, err := strconv.ParseInt(chi.URLParam(r, "compID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid completionist id", http.StatusBadRequest)
		return
	}

	var comp models.CompletionistAchievement
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.GameService.UpdateCompletionist(r.Context(), id, compID, comp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateCompletionist: %v", err))
		http.Error(w, "Could not update completionist entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCompletionist(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		http.Error(w, "Invalid game id", http.StatusBadRequest)
		return
	}
	compID, err := strconv.ParseInt(chi.URLParam(r, "compID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid completionist id", http.StatusBadRequest)
		return
	}

	if err := h.GameService.DeleteCompletionist(r.Context(), id, compID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteCompletionist: %v", err))
		http.Error(w, "Could not delete completionist entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AllCompletionist(w http.ResponseWriter, r *http.Request) {
	comps, err := h.GameService.AllCompletionist(r.Context(),
		r.URL.Query().Get("sort"), r.URL.Query().Get("status"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AllCompletionist: %v", err))
		http.Error(w, "Could not list completionist entries", http.StatusInternalServerError)
		return
	}
	if comps == nil {
		comps = []models.CompletionistAchievement{}
	}
	writeJSON(w, http.StatusOK, comps)
}
