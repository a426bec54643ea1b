package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
)

// ChatService defines the assistant operations used by the handler
type ChatService interface {
	Send(ctx context.Context, sessionID, message string) (*services.ChatReply, error)
	History(ctx context.Context, sessionID string) []entities.ChatMessage
}

// ChatHandler handles AI assistant requests
type ChatHandler struct {
	service ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat handles POST /api/assistant/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	reply, err := h.service.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reply)
}

// GetHistory handles GET /api/assistant/sessions/{id}
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"history":    h.service.History(r.Context(), id),
	})
}
