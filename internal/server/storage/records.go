package storage

import (
	"context"

	"github.com/iudanet/tradetrack/internal/models"
)

// RecordStorage defines interface for domain table rows shared inside a workspace
type RecordStorage interface {
	// InsertRecord stores a new row
	// Returns ErrRecordExists if a row with the same table and id exists in the workspace
	InsertRecord(ctx context.Context, rec *models.StoredRecord) error

	// GetRecord retrieves a single row
	// Returns ErrRecordNotFound if the row doesn't exist
	GetRecord(ctx context.Context, workspaceID, table, id string) (*models.StoredRecord, error)

	// UpdateRecord replaces data of an existing row
	// Returns ErrRecordNotFound if the row doesn't exist
	UpdateRecord(ctx context.Context, rec *models.StoredRecord) error

	// DeleteRecord removes the row; deleting a missing row is not an error
	DeleteRecord(ctx context.Context, workspaceID, table, id string) error

	// ListRecords returns all rows of a table in the workspace ordered by creation time
	ListRecords(ctx context.Context, workspaceID, table string) ([]*models.StoredRecord, error)
}
