package models

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type AuthCheckResponse struct {
	LoggedIn bool `json:"logged_in"`
}
