package handler

import (
	"context"
	"net/http"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

// AccountService is the part of the account registry the handlers need.
type AccountService interface {
	Register(ctx context.Context, username, password, passwordConfirm string) error
	Authenticate(ctx context.Context, username, password string) (model.User, string, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (model.User, *model.FamilyProfile, error)
}

// Account handles registration, login and session endpoints.
type Account struct {
	service AccountService
	logger  *logger.Logger
}

// NewAccount creates account handlers.
func NewAccount(service AccountService, logger *logger.Logger) *Account {
	return &Account{service: service, logger: logger}
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (h *Account) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Register(r.Context(), req.Username, req.Password, req.PasswordConfirm); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (h *Account) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	user, tok, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: tok})
}

func (h *Account) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	User   model.User           `json:"user"`
	Family *model.FamilyProfile `json:"family,omitempty"`
}

func (h *Account) Session(w http.ResponseWriter, r *http.Request) {
	user, family, err := h.service.Session(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Family: family})
}
