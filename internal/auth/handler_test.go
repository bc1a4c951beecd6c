package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachit/chat-backend/internal/models"
	"github.com/rachit/chat-backend/internal/store"
)

type fakeUserStore struct {
	created *models.User

	createErr error

	findByEmailOut *models.User
	findByEmailErr error

	getOut *models.User
	getErr error

	refreshedUserID string
	refreshedToken  string
	refreshedExpiry int64
	refreshErr      error

	clearedUserID string
	clearErr      error
}

func (f *fakeUserStore) CreateUser(ctx context.Context, u *models.User) error {
	f.created = u
	return f.createErr
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}
	return f.findByEmailOut, nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUserStore) RefreshSession(ctx context.Context, userID, token string, expiresAt int64) error {
	f.refreshedUserID = userID
	f.refreshedToken = token
	f.refreshedExpiry = expiresAt
	return f.refreshErr
}

func (f *fakeUserStore) ClearSession(ctx context.Context, userID string) error {
	f.clearedUserID = userID
	return f.clearErr
}

func doRequest(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister_Success(t *testing.T) {
	users := &fakeUserStore{}
	h := NewHandler(users)

	rec := doRequest(t, h.Register, `{"name":"A","email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string                 `json:"message"`
		User    map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.User["userId"])
	assert.NotEmpty(t, resp.User["token"])
	assert.Equal(t, "a@x.com", resp.User["email"])
	assert.NotContains(t, resp.User, "password")

	require.NotNil(t, users.created)
	assert.True(t, VerifyPassword(users.created.Password, "pw"))
	assert.Empty(t, users.created.ConversationIDs)
	assert.Greater(t, users.created.TokenExpiresAt, time.Now().Unix())
}

func TestRegister_MissingFields(t *testing.T) {
	h := NewHandler(&fakeUserStore{})

	for _, body := range []string{
		`{}`,
		`{"name":"A","email":"a@x.com"}`,
		`{"name":"A","password":"pw"}`,
		`{"email":"a@x.com","password":"pw"}`,
	} {
		rec := doRequest(t, h.Register, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestRegister_WrappedBody(t *testing.T) {
	users := &fakeUserStore{}
	h := NewHandler(users)

	inner, _ := json.Marshal(map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})
	outer, _ := json.Marshal(map[string]string{"body": string(inner)})

	rec := doRequest(t, h.Register, string(outer))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, users.created)
	assert.Equal(t, "a@x.com", users.created.Email)
}

func TestRegister_StoreError(t *testing.T) {
	h := NewHandler(&fakeUserStore{createErr: errors.New("dynamo down")})

	rec := doRequest(t, h.Register, `{"name":"A","email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DynamoDB error")
}

func TestRegister_DuplicateID(t *testing.T) {
	h := NewHandler(&fakeUserStore{createErr: store.ErrDuplicateID})

	rec := doRequest(t, h.Register, `{"name":"A","email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	hashed, err := HashPassword("pw")
	require.NoError(t, err)
	users := &fakeUserStore{findByEmailOut: &models.User{
		UserID:   "u1",
		Email:    "a@x.com",
		Password: hashed,
		Token:    "old-token",
	}}
	h := NewHandler(users)

	rec := doRequest(t, h.Login, `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string                 `json:"message"`
		User    map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotContains(t, resp.User, "password")
	assert.NotEqual(t, "old-token", resp.User["token"], "login must issue a fresh token")

	assert.Equal(t, "u1", users.refreshedUserID)
	assert.Equal(t, resp.User["token"], users.refreshedToken)
	assert.Greater(t, users.refreshedExpiry, time.Now().Unix())
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	hashed, err := HashPassword("pw")
	require.NoError(t, err)

	unknown := NewHandler(&fakeUserStore{findByEmailErr: store.ErrNotFound})
	wrongPw := NewHandler(&fakeUserStore{findByEmailOut: &models.User{
		UserID: "u1", Email: "a@x.com", Password: hashed,
	}})

	recUnknown := doRequest(t, unknown.Login, `{"email":"nobody@x.com","password":"pw"}`)
	recWrongPw := doRequest(t, wrongPw.Login, `{"email":"a@x.com","password":"not-pw"}`)

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrongPw.Code)
	assert.Equal(t, recUnknown.Body.String(), recWrongPw.Body.String(),
		"unknown email and wrong password must be indistinguishable")
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewHandler(&fakeUserStore{})

	rec := doRequest(t, h.Login, `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_StoreError(t *testing.T) {
	h := NewHandler(&fakeUserStore{findByEmailErr: errors.New("scan failed")})

	rec := doRequest(t, h.Login, `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogout(t *testing.T) {
	users := &fakeUserStore{}
	h := NewHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), "user_id", "u1"))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", users.clearedUserID)
}

func TestMe(t *testing.T) {
	users := &fakeUserStore{getOut: &models.User{UserID: "u1", Name: "A", Email: "a@x.com", Password: "secret"}}
	h := NewHandler(users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), "user_id", "u1"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestMe_UserGone(t *testing.T) {
	h := NewHandler(&fakeUserStore{getErr: store.ErrUserNotFound})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), "user_id", "u1"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
