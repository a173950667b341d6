package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/server/handlers"
	"github.com/iudanet/tradetrack/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testJWTConfig(secret string) handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:          []byte(secret),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

func notCalled(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
}

func decodeError(t *testing.T, body io.Reader) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtConfig := testJWTConfig("test-secret-key")

	token, _, err := handlers.GenerateAccessToken(jwtConfig, "user123", "testuser")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), jwtConfig)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok)
		assert.Equal(t, "user123", userID)

		username, ok := handlers.GetUsername(r.Context())
		require.True(t, ok)
		assert.Equal(t, "testuser", username)

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	jwtConfig := testJWTConfig("test-secret-key")

	foreign, _, err := handlers.GenerateAccessToken(testJWTConfig("another-secret"), "user123", "testuser")
	require.NoError(t, err)

	expiredCfg := jwtConfig
	expiredCfg.AccessTokenTTL = -time.Minute
	expired, _, err := handlers.GenerateAccessToken(expiredCfg, "user123", "testuser")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "missing header", header: "", wantMsg: "missing token"},
		{name: "no Bearer prefix", header: "token123", wantMsg: "invalid token format"},
		{name: "wrong scheme", header: "Basic token123", wantMsg: "invalid token format"},
		{name: "empty token", header: "Bearer ", wantMsg: "invalid token format"},
		{name: "malformed token", header: "Bearer invalid.token.here", wantMsg: "invalid or expired token"},
		{name: "wrong secret", header: "Bearer " + foreign, wantMsg: "invalid or expired token"},
		{name: "expired token", header: "Bearer " + expired, wantMsg: "invalid or expired token"},
	}

	handler := AuthMiddleware(setupTestLogger(), jwtConfig)(notCalled(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeError(t, w.Body)
			assert.Equal(t, api.CodeAuth, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}
