package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastSyncTime saves the time of the last finished drain pass for workspace
	SaveLastSyncTime(ctx context.Context, workspaceID string, t time.Time) error

	// GetLastSyncTime returns zero time if no drain has been performed yet
	GetLastSyncTime(ctx context.Context, workspaceID string) (time.Time, error)

	// DeleteWorkspace removes metadata of the workspace
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}
