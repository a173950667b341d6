package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage defines interface for storing the signed-in session on client
type SessionStorage interface {
	// SaveSession stores session data, replacing the previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves stored session.
	// Returns ErrSessionNotFound if user is signed out
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes stored session (logout)
	DeleteSession(ctx context.Context) error
}

// Session represents the signed-in user and the active workspace
type Session struct {
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	WorkspaceID  string `json:"workspace_id,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	PublicSalt   string `json:"public_salt"`
	ExpiresAt    int64  `json:"expires_at"`
}

// IsExpired reports whether access token is expired at the given moment
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}
