package auth

import (
	"net/http"
)

// Middleware rejects requests without a valid session cookie. Applied to
// mutating routes; reads stay public like the rest of the tracker UI.
func (h *Handler) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !h.loggedIn(r) {
				http.Error(w, `{"error":"Authentication required"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
