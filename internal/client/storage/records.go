package storage

import (
	"context"

	"github.com/iudanet/tradetrack/internal/models"
)

//go:generate moq -out records_mock.go . RecordStore

// Change describes one local domain write
type Change struct {
	Operation models.Operation
	Table     string
	EntityID  string
	Payload   []byte
}

// RecordStore provides access to local domain tables
type RecordStore interface {
	// Apply writes domain rows and enqueues matching mutations in one transaction.
	// Either every change is committed together with its mutation record or nothing is.
	Apply(ctx context.Context, workspaceID string, changes ...Change) ([]models.MutationRecord, error)

	// MarkSynced sets is_synced flag on the domain row.
	// The flag stays unset while the row has pending or failed mutations
	MarkSynced(ctx context.Context, workspaceID, table, entityID string) error

	// GetRecord returns single domain row
	GetRecord(ctx context.Context, workspaceID, table, id string) (*models.LocalRecord, error)

	// ListRecords returns all rows of table for workspace
	ListRecords(ctx context.Context, workspaceID, table string) ([]models.LocalRecord, error)
}
