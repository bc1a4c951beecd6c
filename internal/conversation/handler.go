// Package conversation implements conversation-id issuance and
// conversation-history retrieval.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/rachit/chat-backend/internal/httpapi"
	"github.com/rachit/chat-backend/internal/models"
	"github.com/rachit/chat-backend/internal/store"
)

// UserStore defines the user operations the registry needs.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	AppendConversationID(ctx context.Context, userID, conversationID string) error
}

// ConversationStore defines the conversation operations the registry needs.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conversationID string) error
	BatchGetConversations(ctx context.Context, ids []string) ([]models.Conversation, error)
}

// Handler holds the conversation HTTP handlers.
type Handler struct {
	users         UserStore
	conversations ConversationStore
}

func NewHandler(users UserStore, conversations ConversationStore) *Handler {
	return &Handler{users: users, conversations: conversations}
}

// Resolve returns an existing conversation id unchanged, or allocates a new
// one: the id is appended to the user's list (conditioned on the user
// existing) and an empty conversation record is created. The two writes are
// not transactional; a crash in between leaves the user pointing at an id
// with no backing record, which FetchHistory tolerates by omission.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRequest
	if err := httpapi.DecodeBody(r, &req); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal server error", "error": err.Error(),
		})
		return
	}
	if req.UserID == "" {
		httpapi.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "userId is required",
		})
		return
	}

	// Existing conversation: echo the id back, no store operations, not
	// even an existence check.
	if req.ConversationID != "" {
		httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":        "Existing conversation",
			"conversationId": req.ConversationID,
			"isNew":          false,
		})
		return
	}

	newID := uuid.New().String()
	if err := h.users.AppendConversationID(r.Context(), req.UserID, newID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			httpapi.WriteJSON(w, http.StatusNotFound, map[string]string{
				"message": "User not found",
			})
			return
		}
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}
	if err := h.conversations.CreateConversation(r.Context(), newID); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        "New conversation created",
		"conversationId": newID,
		"isNew":          true,
	})
}

// History loads the user's linked conversation ids, bulk-fetches the
// records, and returns the flattened histories. Ids the batch fetch does
// not return are omitted; ordering follows the batch response.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	var req models.HistoryRequest
	if err := httpapi.DecodeBody(r, &req); err != nil || req.UserID == "" {
		httpapi.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "userId is required",
		})
		return
	}

	user, err := h.users.GetUser(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			httpapi.WriteJSON(w, http.StatusNotFound, map[string]string{
				"error": "User not found",
			})
			return
		}
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Error fetching user: %v", err),
		})
		return
	}

	if len(user.ConversationIDs) == 0 {
		httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":       "No conversations found",
			"conversations": []models.Conversation{},
		})
		return
	}

	conversations, err := h.conversations.BatchGetConversations(r.Context(), user.ConversationIDs)
	if err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Error fetching conversations: %v", err),
		})
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"userId":        req.UserID,
		"conversations": conversations,
	})
}
