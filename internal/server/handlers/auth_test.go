package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/crypto"
	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
	"github.com/iudanet/tradetrack/pkg/api"
)

var errDB = errors.New("database is locked")

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users          map[string]*models.User // username -> User
	createError    error
	getUserError   error
	lastLoginError error
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	return nil
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, id string) error {
	return nil
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, loginTime time.Time) error {
	if m.lastLoginError != nil {
		return m.lastLoginError
	}
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLogin = &loginTime
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	tokens      map[string]*models.RefreshToken // token hash -> RefreshToken
	saveError   error
	deleteError error
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	rt, ok := m.tokens[tokenHash]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockTokenStorage) GetUserTokens(ctx context.Context, userID string) ([]*models.RefreshToken, error) {
	var result []*models.RefreshToken
	for _, token := range m.tokens {
		if token.UserID == userID {
			result = append(result, token)
		}
	}
	return result, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.tokens[tokenHash]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, tokenHash)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	count := 0
	for hash, rt := range m.tokens {
		if rt.UserID == userID {
			delete(m.tokens, hash)
			count++
		}
	}
	return count, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

type authFixture struct {
	handler *AuthHandler
	users   *mockUserStorage
	tokens  *mockTokenStorage
	jwt     JWTConfig
}

func newAuthFixture() *authFixture {
	users := &mockUserStorage{users: map[string]*models.User{
		"alice": {ID: "user-1", Username: "alice", AuthKeyHash: "hash-alice", PublicSalt: "salt-alice"},
		"bob":   {ID: "user-2", Username: "bob", AuthKeyHash: "hash-bob", PublicSalt: "salt-bob"},
	}}
	tokens := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
	jwtConfig := JWTConfig{
		Secret:          []byte("test-secret"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
	return &authFixture{
		handler: NewAuthHandler(setupTestLogger(), users, tokens, jwtConfig),
		users:   users,
		tokens:  tokens,
		jwt:     jwtConfig,
	}
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
}

func (f *authFixture) login(t *testing.T, username string) api.TokenResponse {
	t.Helper()
	w := httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{
		Username: username, AuthKeyHash: "hash-" + username,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		createError error
		wantStatus  int
		wantCode    string
	}{
		{
			name:       "success",
			body:       api.RegisterRequest{Username: "carol", AuthKeyHash: "h", PublicSalt: "s"},
			wantStatus: http.StatusCreated,
		},
		{name: "invalid json", body: "invalid json", wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{
			name:       "invalid username",
			body:       api.RegisterRequest{Username: "user@name", AuthKeyHash: "h", PublicSalt: "s"},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.CodeValidation,
		},
		{
			name:       "empty auth key hash",
			body:       api.RegisterRequest{Username: "carol", PublicSalt: "s"},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.CodeValidation,
		},
		{
			name:       "empty public salt",
			body:       api.RegisterRequest{Username: "carol", AuthKeyHash: "h"},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.CodeValidation,
		},
		{
			name:       "duplicate username",
			body:       api.RegisterRequest{Username: "alice", AuthKeyHash: "h", PublicSalt: "s"},
			wantStatus: http.StatusConflict,
			wantCode:   api.CodeConflict,
		},
		{
			name:        "storage error",
			body:        api.RegisterRequest{Username: "carol", AuthKeyHash: "h", PublicSalt: "s"},
			createError: errDB,
			wantStatus:  http.StatusInternalServerError,
			wantCode:    api.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.createError = tt.createError

			w := httptest.NewRecorder()
			f.handler.Register(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var resp api.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.wantCode, resp.Code)
				return
			}

			var resp api.RegisterResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			user, err := f.users.GetUserByUsername(context.Background(), "carol")
			require.NoError(t, err)
			assert.Equal(t, user.ID, resp.UserID)
			assert.Equal(t, "h", user.AuthKeyHash)
		})
	}
}

func TestAuthHandler_GetSalt(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		getErr     error
		wantStatus int
	}{
		{name: "success", username: "alice", wantStatus: http.StatusOK},
		{name: "user not found", username: "nobody", wantStatus: http.StatusNotFound},
		{name: "invalid username", username: "a!", wantStatus: http.StatusBadRequest},
		{name: "db error", username: "alice", getErr: errDB, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.getUserError = tt.getErr

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/salt/"+tt.username, nil)
			req.SetPathValue("username", tt.username)
			w := httptest.NewRecorder()
			f.handler.GetSalt(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp api.SaltResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "salt-alice", resp.PublicSalt)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture()

	resp := f.login(t, "alice")
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := ValidateAccessToken(f.jwt, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// на сервере хранится только хеш refresh токена
	_, raw := f.tokens.tokens[resp.RefreshToken]
	assert.False(t, raw)
	stored, ok := f.tokens.tokens[crypto.HashToken(resp.RefreshToken)]
	require.True(t, ok)
	assert.Equal(t, "user-1", stored.UserID)

	assert.NotNil(t, f.users.users["alice"].LastLogin)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(f *authFixture)
		wantStatus int
	}{
		{name: "invalid json", body: "{", wantStatus: http.StatusBadRequest},
		{name: "empty hash", body: api.LoginRequest{Username: "alice"}, wantStatus: http.StatusBadRequest},
		{name: "unknown user", body: api.LoginRequest{Username: "nobody", AuthKeyHash: "x"}, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", body: api.LoginRequest{Username: "alice", AuthKeyHash: "hash-bob"}, wantStatus: http.StatusUnauthorized},
		{
			name:       "token save error",
			body:       api.LoginRequest{Username: "alice", AuthKeyHash: "hash-alice"},
			setup:      func(f *authFixture) { f.tokens.saveError = errDB },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "last login error is not fatal",
			body:       api.LoginRequest{Username: "alice", AuthKeyHash: "hash-alice"},
			setup:      func(f *authFixture) { f.users.lastLoginError = errDB },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			w := httptest.NewRecorder()
			f.handler.Login(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	f := newAuthFixture()
	first := f.login(t, "alice")

	w := httptest.NewRecorder()
	f.handler.Refresh(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{RefreshToken: first.RefreshToken}))
	require.Equal(t, http.StatusOK, w.Code)

	var second api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, "user-1", second.UserID)

	// старый токен отозван
	w = httptest.NewRecorder()
	f.handler.Refresh(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{RefreshToken: first.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, f.tokens.tokens, 1)
}

func TestAuthHandler_Refresh_Failures(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setup      func(f *authFixture, token string)
		wantStatus int
	}{
		{name: "empty token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", token: "unknown", wantStatus: http.StatusUnauthorized},
		{
			name: "expired token",
			setup: func(f *authFixture, token string) {
				f.tokens.tokens[crypto.HashToken(token)].ExpiresAt = time.Now().Add(-time.Minute)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "user lookup error",
			setup:      func(f *authFixture, _ string) { f.users.getUserError = errDB },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "delete old token error",
			setup:      func(f *authFixture, _ string) { f.tokens.deleteError = errDB },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "save new token error",
			setup:      func(f *authFixture, _ string) { f.tokens.saveError = errDB },
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			token := tt.token
			if tt.setup != nil {
				token = f.login(t, "alice").RefreshToken
				tt.setup(f, token)
			}

			w := httptest.NewRecorder()
			f.handler.Refresh(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{RefreshToken: token}))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes only the given session", func(t *testing.T) {
		f := newAuthFixture()
		laptop := f.login(t, "alice")
		phone := f.login(t, "alice")

		w := httptest.NewRecorder()
		req := withUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", api.LogoutRequest{RefreshToken: laptop.RefreshToken}), "user-1")
		f.handler.Logout(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)

		assert.NotContains(t, f.tokens.tokens, crypto.HashToken(laptop.RefreshToken))
		assert.Contains(t, f.tokens.tokens, crypto.HashToken(phone.RefreshToken))

		// повторный выход не ошибка
		w = httptest.NewRecorder()
		req = withUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", api.LogoutRequest{RefreshToken: laptop.RefreshToken}), "user-1")
		f.handler.Logout(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("without token revokes all sessions", func(t *testing.T) {
		f := newAuthFixture()
		f.login(t, "alice")
		f.login(t, "alice")
		bob := f.login(t, "bob")

		w := httptest.NewRecorder()
		f.handler.Logout(w, withUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil), "user-1"))
		assert.Equal(t, http.StatusNoContent, w.Code)

		require.Len(t, f.tokens.tokens, 1)
		assert.Contains(t, f.tokens.tokens, crypto.HashToken(bob.RefreshToken))
	})

	t.Run("foreign token is rejected", func(t *testing.T) {
		f := newAuthFixture()
		bob := f.login(t, "bob")

		w := httptest.NewRecorder()
		req := withUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", api.LogoutRequest{RefreshToken: bob.RefreshToken}), "user-1")
		f.handler.Logout(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, f.tokens.tokens, crypto.HashToken(bob.RefreshToken))
	})

	t.Run("requires authenticated user", func(t *testing.T) {
		f := newAuthFixture()
		w := httptest.NewRecorder()
		f.handler.Logout(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.deleteError = errDB
		w := httptest.NewRecorder()
		f.handler.Logout(w, withUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil), "user-1"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
