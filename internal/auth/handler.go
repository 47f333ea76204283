package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gametracker/internal/logger"
	"gametracker/internal/models"
)

const sessionCookieName = "gametracker_session"

type Handler struct {
	Sessions      SessionStore
	AdminPassword string
	SessionTTL    time.Duration
	Logger        *logger.Logger
}

func NewHandler(sessions SessionStore, adminPassword string, ttl time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		Sessions:      sessions,
		AdminPassword: adminPassword,
		SessionTTL:    ttl,
		Logger:        log,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.AdminPassword)) != 1 {
		h.Logger.Warn("AUTH", "Login attempt with wrong password")
		writeJSON(w, http.StatusUnauthorized, models.LoginResponse{Success: false, Error: "Invalid password"})
		return
	}

	token, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("Failed to create session: %v", err))
		http.Error(w, "Could not create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.Sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.Logger.Warn("AUTH", fmt.Sprintf("Failed to delete session: %v", err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.AuthCheckResponse{LoggedIn: h.loggedIn(r)})
}

func (h *Handler) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	ok, err := h.Sessions.Validate(r.Context(), cookie.Value)
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("Session validation failed: %v", err))
		return false
	}
	return ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
