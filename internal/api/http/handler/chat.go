package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbeier/famsync/internal/api/http/middleware"
	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

// ChatService is the part of the chat log the handlers need.
type ChatService interface {
	Append(ctx context.Context, familyID, sender, text string) (model.ChatMessage, error)
	List(ctx context.Context, familyID string) ([]model.ChatMessage, error)
	LoadRemote(ctx context.Context, familyID string) ([]model.ChatMessage, error)
}

// Chat handles conversation endpoints.
type Chat struct {
	service ChatService
	logger  *logger.Logger
}

// NewChat creates chat handlers.
func NewChat(service ChatService, logger *logger.Logger) *Chat {
	return &Chat{service: service, logger: logger}
}

type appendRequest struct {
	Text string `json:"text"`
}

func (h *Chat) Append(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	sender, _ := middleware.UsernameFromContext(r.Context())
	message, err := h.service.Append(r.Context(), mux.Vars(r)["id"], sender, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	// Blank sends are silently dropped.
	if message.ID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *Chat) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// LoadRemote serves the initial conversation load, merged from the remote
// registry when it is reachable.
func (h *Chat) LoadRemote(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.LoadRemote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
