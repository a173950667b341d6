package storage

import (
	"context"

	"github.com/iudanet/tradetrack/internal/models"
)

//go:generate moq -out mutation_mock.go . MutationLog

// MutationLog is the durable ordered log of local changes that must reach the server
type MutationLog interface {
	// Enqueue persists a new pending record with a fresh id and current time
	Enqueue(ctx context.Context, workspaceID string, op models.Operation, table, entityID string, payload []byte) (*models.MutationRecord, error)

	// ListPending returns pending records of workspace in enqueue order
	ListPending(ctx context.Context, workspaceID string) ([]models.MutationRecord, error)

	// GetMutation returns single record by id
	GetMutation(ctx context.Context, id string) (*models.MutationRecord, error)

	// ListMutations returns records of workspace with given statuses (all when empty), newest last
	ListMutations(ctx context.Context, workspaceID string, statuses ...models.MutationStatus) ([]models.MutationRecord, error)

	// MarkCompleted moves pending record to completed, counting the successful attempt
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed moves pending record to failed and stores the error
	MarkFailed(ctx context.Context, id, errMsg string) error

	// RecordAttempt increments attempts and stores the error.
	// Record becomes failed once attempts reach maxAttempts.
	RecordAttempt(ctx context.Context, id, errMsg string, maxAttempts int) (*models.MutationRecord, error)

	// CountsByStatus returns number of records per status for workspace
	CountsByStatus(ctx context.Context, workspaceID string) (models.StatusCounts, error)

	// ClearAll removes all mutation records and domain rows of workspace in one transaction
	ClearAll(ctx context.Context, workspaceID string) error
}
