package auth

import (
	"context"

	"github.com/iudanet/tradetrack/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for authentication operations.
// It talks to the server and keeps the signed-in session in local storage.
type Service interface {
	// Register регистрирует нового пользователя, сессия не создается
	Register(ctx context.Context, username, password string) (*RegisterResult, error)

	// Login выполняет аутентификацию и сохраняет сессию.
	// Выбранное ранее рабочее пространство сохраняется при повторном входе того же пользователя.
	Login(ctx context.Context, username, password string) (*storage.Session, error)

	// Refresh обновляет access token используя refresh token и сохраняет новые токены
	Refresh(ctx context.Context) (*storage.Session, error)

	// Logout уведомляет сервер (best effort) и удаляет локальную сессию
	Logout(ctx context.Context) error

	// Session возвращает текущую сессию или storage.ErrSessionNotFound
	Session(ctx context.Context) (*storage.Session, error)

	// UseWorkspace сохраняет выбранное рабочее пространство в сессии
	UseWorkspace(ctx context.Context, workspaceID string) (*storage.Session, error)
}
