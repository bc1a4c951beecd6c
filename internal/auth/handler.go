package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rachit/chat-backend/internal/httpapi"
	"github.com/rachit/chat-backend/internal/models"
	"github.com/rachit/chat-backend/internal/store"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	RefreshSession(ctx context.Context, userID, token string, expiresAt int64) error
	ClearSession(ctx context.Context, userID string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users UserStore
}

func NewHandler(users UserStore) *Handler {
	return &Handler{users: users}
}

// Register creates a new user with a fresh session token. Email uniqueness
// is not enforced; only the generated userId is guarded against collision.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httpapi.DecodeBody(r, &req); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal server error", "error": err.Error(),
		})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpapi.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "name, email and password are required",
		})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal server error", "error": err.Error(),
		})
		return
	}

	user := &models.User{
		UserID:          uuid.New().String(),
		Name:            req.Name,
		Email:           req.Email,
		Password:        hashed,
		ConversationIDs: []string{},
		Token:           uuid.New().String(),
		TokenExpiresAt:  time.Now().Add(SessionTTL).Unix(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login verifies credentials and issues a new session token, overwriting
// the previous one. Unknown email and wrong password produce identical
// responses so the two cases cannot be told apart.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpapi.DecodeBody(r, &req); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal server error", "error": err.Error(),
		})
		return
	}
	if req.Email == "" || req.Password == "" {
		httpapi.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "email and password are required",
		})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpapi.WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"message": "Invalid email or password",
			})
			return
		}
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}
	if !VerifyPassword(user.Password, req.Password) {
		httpapi.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Invalid email or password",
		})
		return
	}

	token := uuid.New().String()
	expiresAt := time.Now().Add(SessionTTL).Unix()
	if err := h.users.RefreshSession(r.Context(), user.UserID, token, expiresAt); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}
	user.Token = token
	user.TokenExpiresAt = expiresAt

	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout clears the current user's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	if userID == "" {
		httpapi.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	if err := h.users.ClearSession(r.Context(), userID); err != nil {
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	if userID == "" {
		httpapi.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			httpapi.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "DynamoDB error", "error": err.Error(),
		})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, user)
}
