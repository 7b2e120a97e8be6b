package http

import (
	"context"
	"net/http"
)

// AuthService defines the credential checks required by AuthHandler.
type AuthService interface {
	// Login returns the session token for a valid username/password pair.
	Login(ctx context.Context, username, password string) (string, error)
	// CheckToken returns nil when token is accepted.
	CheckToken(ctx context.Context, token string) error
}

// AuthHandler handles login and token checks.
type AuthHandler struct {
	AuthService AuthService
}

// LoginRequest is the payload of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenRequest is the payload of POST /api/check-token.
type TokenRequest struct {
	Token string `json:"token"`
}

// Login answers {"token": ...} for the configured credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "Username or password do not exist")
		return
	}
	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, "Username or password do not exist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CheckToken confirms that the submitted token is the configured one.
func (h *AuthHandler) CheckToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid token")
		return
	}
	if err := h.AuthService.CheckToken(r.Context(), req.Token); err != nil {
		writeError(w, "invalid token")
		return
	}
	writeMessage(w, "token authenticated")
}
