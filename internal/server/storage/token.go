package storage

import (
	"context"

	"github.com/iudanet/tradetrack/internal/models"
)

// TokenStorage defines interface for refresh token persistence.
// Tokens are looked up by their SHA256 hash, raw values are never stored.
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token
	// If token with same hash exists, it will be replaced
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves refresh token by its hash
	// Returns ErrTokenNotFound if token doesn't exist
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// GetUserTokens retrieves all refresh tokens for a user
	// Returns empty slice if no tokens found
	GetUserTokens(ctx context.Context, userID string) ([]*models.RefreshToken, error)

	// DeleteRefreshToken deletes refresh token by its hash
	// Returns ErrTokenNotFound if token doesn't exist
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens deletes all refresh tokens for a user
	// Returns number of deleted tokens
	DeleteUserTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredTokens removes all expired tokens
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context) (int, error)
}
