package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/client/api"
	"github.com/iudanet/tradetrack/internal/client/storage"
	pkgapi "github.com/iudanet/tradetrack/pkg/api"
)

// memorySessions хранит сессию в памяти
type memorySessions struct {
	data    *storage.Session
	saveErr error
}

func (m *memorySessions) SaveSession(ctx context.Context, s *storage.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *s
	m.data = &cp
	return nil
}

func (m *memorySessions) GetSession(ctx context.Context) (*storage.Session, error) {
	if m.data == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *m.data
	return &cp, nil
}

func (m *memorySessions) DeleteSession(ctx context.Context) error {
	m.data = nil
	return nil
}

// fakeServer - минимальный сервер авторизации
type fakeServer struct {
	users        map[string]pkgapi.RegisterRequest
	refreshCalls int
	logoutCalls  int
	mu           sync.Mutex
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	fs := &fakeServer{users: make(map[string]pkgapi.RegisterRequest)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fs.mu.Lock()
		defer fs.mu.Unlock()
		if _, ok := fs.users[req.Username]; ok {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: "Conflict", Message: "user already exists"})
			return
		}
		fs.users[req.Username] = req
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgapi.RegisterResponse{UserID: "id-" + req.Username})
	})
	mux.HandleFunc("GET /api/v1/auth/salt/{username}", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		u, ok := fs.users[r.PathValue("username")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(pkgapi.SaltResponse{PublicSalt: u.PublicSalt})
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fs.mu.Lock()
		defer fs.mu.Unlock()
		u, ok := fs.users[req.Username]
		if !ok || u.AuthKeyHash != req.AuthKeyHash {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: "Unauthorized", Message: "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{
			AccessToken: "access-1", RefreshToken: "refresh-1", UserID: "id-" + req.Username, ExpiresIn: 900,
		})
	})
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.refreshCalls++
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 900})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.logoutCalls++
		fs.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func newTestService(t *testing.T, baseURL string, sessions storage.SessionStorage) *service {
	svc := NewService(api.NewClient(baseURL), sessions, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return svc
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeServer(t)
	sessions := &memorySessions{}
	svc := newTestService(t, srv.URL, sessions)

	res, err := svc.Register(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "id-alice", res.UserID)
	assert.NotEmpty(t, res.PublicSalt)
	assert.Nil(t, sessions.data, "регистрация не создает сессию")

	_, err = svc.Register(ctx, "alice", "correct-horse")
	require.Error(t, err)
	assert.Equal(t, api.KindConflict, api.KindOf(err))

	session, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "id-alice", session.UserID)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, res.PublicSalt, session.PublicSalt)
	assert.Equal(t, int64(1_700_000_900), session.ExpiresAt)

	stored, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, stored)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)
	assert.True(t, api.IsAuth(err))
}

func TestService_InputValidation(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1", &memorySessions{})

	_, err := svc.Register(context.Background(), "a", "correct-horse")
	assert.ErrorContains(t, err, "invalid username")

	_, err = svc.Register(context.Background(), "alice", "short")
	assert.ErrorContains(t, err, "invalid password")

	_, err = svc.Login(context.Background(), "bad name!", "correct-horse")
	assert.ErrorContains(t, err, "invalid username")
}

func TestService_LoginKeepsWorkspaceForSameUser(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeServer(t)
	sessions := &memorySessions{}
	svc := newTestService(t, srv.URL, sessions)

	_, err := svc.Register(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	wsID := "6f1c1a38-3f51-4c43-9a0a-1c0c7d3a9e11"
	_, err = svc.UseWorkspace(ctx, wsID)
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, wsID, session.WorkspaceID)

	session, err = svc.Login(ctx, "bob", "correct-horse")
	require.NoError(t, err)
	assert.Empty(t, session.WorkspaceID, "другой пользователь не наследует пространство")
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	fs, srv := newFakeServer(t)
	sessions := &memorySessions{}
	svc := newTestService(t, srv.URL, sessions)

	_, err := svc.Refresh(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = svc.Register(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	session, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", session.AccessToken)
	assert.Equal(t, "refresh-2", session.RefreshToken)
	assert.Equal(t, "id-alice", session.UserID)
	assert.Equal(t, 1, fs.refreshCalls)
	assert.Equal(t, "access-2", sessions.data.AccessToken)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("without session", func(t *testing.T) {
		svc := newTestService(t, "http://127.0.0.1:1", &memorySessions{})
		require.NoError(t, svc.Logout(ctx))
	})

	t.Run("server notified", func(t *testing.T) {
		fs, srv := newFakeServer(t)
		sessions := &memorySessions{data: &storage.Session{Username: "alice", AccessToken: "a", RefreshToken: "r"}}
		svc := newTestService(t, srv.URL, sessions)

		require.NoError(t, svc.Logout(ctx))
		assert.Nil(t, sessions.data)
		assert.Equal(t, 1, fs.logoutCalls)
	})

	t.Run("server unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		sessions := &memorySessions{data: &storage.Session{Username: "alice", AccessToken: "a"}}
		svc := newTestService(t, url, sessions)

		require.NoError(t, svc.Logout(ctx))
		assert.Nil(t, sessions.data, "локальная сессия удаляется даже без сервера")
	})
}

func TestService_UseWorkspace(t *testing.T) {
	ctx := context.Background()
	sessions := &memorySessions{}
	svc := newTestService(t, "http://127.0.0.1:1", sessions)

	_, err := svc.UseWorkspace(ctx, "6f1c1a38-3f51-4c43-9a0a-1c0c7d3a9e11")
	require.ErrorIs(t, err, ErrNotLoggedIn)

	sessions.data = &storage.Session{UserID: "u1"}
	_, err = svc.UseWorkspace(ctx, "not-a-uuid")
	require.Error(t, err)

	sessions.saveErr = errors.New("disk full")
	_, err = svc.UseWorkspace(ctx, "6f1c1a38-3f51-4c43-9a0a-1c0c7d3a9e11")
	require.ErrorContains(t, err, "disk full")
}
