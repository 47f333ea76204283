package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/internal/logger"
	"gametracker/internal/models"
)

func newTestHandler() *Handler {
	return NewHandler(NewMemorySessionStore(time.Hour), "secret", time.Hour, logger.NewLogger())
}

func doLogin(t *testing.T, h *Handler, password string) *httptest.ResponseRecorder {
	body := strings.NewReader(`{"password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("No session cookie in response")
	return nil
}

func TestLogin(t *testing.T) {
	h := newTestHandler()

	rec := doLogin(t, h, "secret")
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler()

	rec := doLogin(t, h, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 0, len(rec.Result().Cookies()), "no session on failed login")
}

func TestLoginBadBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckReflectsSession(t *testing.T) {
	h := newTestHandler()

	// Anonymous request.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	var resp models.AuthCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.LoggedIn)

	// Logged-in request.
	cookie := sessionCookie(t, doLogin(t, h, "secret"))
	req = httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.Check(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.LoggedIn)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	h := newTestHandler()
	cookie := sessionCookie(t, doLogin(t, h, "secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The old token no longer validates.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.Check(rec, req)

	var resp models.AuthCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.LoggedIn)
}

func TestMiddleware(t *testing.T) {
	h := newTestHandler()

	protected := h.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Without a session: rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage cookie: rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid session: passed through.
	cookie := sessionCookie(t, doLogin(t, h, "secret"))
	req = httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
