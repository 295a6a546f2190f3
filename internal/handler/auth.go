package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/service"
)

// Authenticator is the slice of service.AuthService the handlers need.
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler serves signup and login.
//
//   - HandleSignup → POST /signup
//   - HandleLogin  → POST /login
type AuthHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// HandleSignup registers a user.
//
// HTTP: POST /signup
// REQUEST BODY: {"id": "u1", "name": "A", "email": "a@x.com", "password": "pw"}
// RESPONSE:     200 {"message": "User created successfully"}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err, "Failed to create user")
		return
	}

	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User created successfully"})
}

// HandleLogin exchanges credentials for a bearer token.
//
// HTTP: POST /login
// REQUEST BODY: {"email": "a@x.com", "password": "pw"}
// RESPONSE:     200 {"token": "<jwt>"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err, "Failed to log in")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}
