// Package chat implements the dialogue turn handler: one user message in,
// one model reply out, with the exchange persisted as a turn.
package chat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/rachit/chat-backend/internal/httpapi"
	"github.com/rachit/chat-backend/internal/models"
)

// defaultConversationID is used when the request names no conversation.
const defaultConversationID = "100"

// ConversationStore defines the conversation operations the turn
// processor needs.
type ConversationStore interface {
	GetTurns(ctx context.Context, conversationID string) ([]models.Turn, error)
	AppendTurn(ctx context.Context, conversationID string, t models.Turn) error
}

// Generator produces a model reply from the prior turns plus the new
// user message.
type Generator interface {
	Generate(ctx context.Context, history []models.Turn, userMessage string) (string, error)
}

// Handler holds the chat HTTP handler.
type Handler struct {
	conversations ConversationStore
	generator     Generator
	log           *zap.Logger
}

func NewHandler(conversations ConversationStore, generator Generator, log *zap.Logger) *Handler {
	return &Handler{conversations: conversations, generator: generator, log: log}
}

// Submit appends one user message, invokes the model with the full prior
// turn sequence, persists the new turn, and returns the reply text alone.
//
// A history read failure degrades to an empty history, and a save failure
// after a successful inference call is logged but does not fail the
// response; inference failure is the only hard error.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := httpapi.DecodeBody(r, &req); err != nil {
		httpapi.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = defaultConversationID
	}

	history, err := h.conversations.GetTurns(r.Context(), req.ConversationID)
	if err != nil {
		h.log.Warn("fetching history failed, continuing with empty history",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
		history = nil
	}

	reply, err := h.generator.Generate(r.Context(), history, req.Message)
	if err != nil {
		h.log.Error("model invocation failed",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate response from model",
		})
		return
	}

	turn := models.Turn{User: req.Message, Assistant: reply}
	if err := h.conversations.AppendTurn(r.Context(), req.ConversationID, turn); err != nil {
		// The reply is already generated; losing the write costs history,
		// not the response.
		h.log.Error("saving turn failed",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}
