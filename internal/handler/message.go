package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mbeckett/carworth/internal/domain"
)

// MessagesHandler handles the file-backed messages endpoints.
type MessagesHandler struct {
	messages domain.MessageRepository
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(messages domain.MessageRepository) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// HandleListMessages returns all messages.
// GET /api/messages
func (h *MessagesHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		slog.Error("list messages", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": toMessageDTOs(messages),
	})
}

// HandleGetMessage returns a single message by id.
// GET /api/messages/{id}
func (h *MessagesHandler) HandleGetMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.messages.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found.")
			return
		}
		slog.Error("get message", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": toMessageDTO(msg),
	})
}

// HandleCreateMessage stores a new message.
// POST /api/messages
// Request: {"content":"..."}
func (h *MessagesHandler) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	msg, err := h.messages.Create(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create message", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": toMessageDTO(msg),
	})
}
