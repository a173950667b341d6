package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/crypto"
	"github.com/iudanet/tradetrack/internal/validation"
	pkgapi "github.com/iudanet/tradetrack/pkg/api"
)

// ErrNotLoggedIn возвращается, если операция требует входа
var ErrNotLoggedIn = errors.New("not logged in, run 'tradetrack login' first")

// API - методы сервера, используемые авторизацией
type API interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	GetSalt(ctx context.Context, username string) (*pkgapi.SaltResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// RegisterResult содержит результат регистрации
type RegisterResult struct {
	UserID     string // UUID пользователя
	Username   string
	PublicSalt string // public salt (base64)
}

type service struct {
	api      API
	sessions storage.SessionStorage
	logger   *slog.Logger
	now      func() time.Time
	// refreshMu не дает двум вызовам одновременно израсходовать один refresh token
	refreshMu sync.Mutex
}

// NewService создает новый сервис авторизации
func NewService(api API, sessions storage.SessionStorage, logger *slog.Logger) Service {
	return &service{
		api:      api,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Register регистрирует нового пользователя
func (s *service) Register(ctx context.Context, username, password string) (*RegisterResult, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	// 1. Генерируем публичную соль
	salt, err := crypto.GenerateSaltBase64()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	// 2. Пароль на сервер не уходит, только хеш производного ключа
	authKeyHash, err := s.authKeyHash(password, username, salt)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, pkgapi.RegisterRequest{
		Username:    username,
		AuthKeyHash: authKeyHash,
		PublicSalt:  salt,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("User registered", "username", username, "user_id", resp.UserID)
	return &RegisterResult{UserID: resp.UserID, Username: username, PublicSalt: salt}, nil
}

// Login выполняет аутентификацию пользователя
func (s *service) Login(ctx context.Context, username, password string) (*storage.Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	// 1. Получаем public_salt с сервера
	saltResp, err := s.api.GetSalt(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}

	// 2. Хешируем auth_key
	authKeyHash, err := s.authKeyHash(password, username, saltResp.PublicSalt)
	if err != nil {
		return nil, err
	}

	// 3. Отправляем запрос на логин
	tokens, err := s.api.Login(ctx, pkgapi.LoginRequest{Username: username, AuthKeyHash: authKeyHash})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	session := &storage.Session{
		Username:     username,
		UserID:       tokens.UserID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		PublicSalt:   saltResp.PublicSalt,
		ExpiresAt:    s.expiresAt(tokens.ExpiresIn),
	}

	// 4. Тот же пользователь продолжает работать в выбранном пространстве
	prev, err := s.sessions.GetSession(ctx)
	switch {
	case err == nil && prev.UserID == session.UserID:
		session.WorkspaceID = prev.WorkspaceID
	case err != nil && !errors.Is(err, storage.ErrSessionNotFound):
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("User logged in", "username", username, "user_id", session.UserID)
	return session, nil
}

// Refresh обновляет access token
func (s *service) Refresh(ctx context.Context) (*storage.Session, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	tokens, err := s.api.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	session.AccessToken = tokens.AccessToken
	session.RefreshToken = tokens.RefreshToken
	session.ExpiresAt = s.expiresAt(tokens.ExpiresIn)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("Access token refreshed", "user_id", session.UserID)
	return session, nil
}

// Logout выполняет выход из системы
func (s *service) Logout(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to read session: %w", err)
	}

	// Не прерываем выход, если сервер недоступен
	if err := s.api.Logout(ctx, session.AccessToken, session.RefreshToken); err != nil {
		s.logger.Warn("Failed to logout on server", slog.Any("error", err))
	}

	// Локальная сессия удаляется всегда
	if err := s.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("User logged out", "username", session.Username)
	return nil
}

// Session возвращает текущую сессию
func (s *service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return session, nil
}

// UseWorkspace сохраняет выбранное рабочее пространство
func (s *service) UseWorkspace(ctx context.Context, workspaceID string) (*storage.Session, error) {
	if err := validation.ValidateRecordID(workspaceID); err != nil {
		return nil, fmt.Errorf("invalid workspace id: %w", err)
	}

	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	session.WorkspaceID = workspaceID

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *service) authKeyHash(password, username, salt string) (string, error) {
	authKey, err := crypto.DeriveAuthKey(password, username, salt)
	if err != nil {
		return "", fmt.Errorf("failed to derive auth key: %w", err)
	}
	hash, err := crypto.HashAuthKey(authKey)
	if err != nil {
		return "", fmt.Errorf("failed to hash auth key: %w", err)
	}
	return hash, nil
}

func (s *service) expiresAt(expiresIn int64) int64 {
	if expiresIn <= 0 {
		return 0
	}
	return s.now().Add(time.Duration(expiresIn) * time.Second).Unix()
}
