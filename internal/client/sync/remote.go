package sync

import (
	"context"
	"encoding/json"

	"github.com/iudanet/tradetrack/internal/client/connectivity"
)

//go:generate moq -out remote_mock.go . Remote

// Remote is the server side of table operations.
// Errors are expected to be *api.RemoteError so the engine can tell network failures apart.
type Remote interface {
	// Insert creates a record; record contains all columns including id
	Insert(ctx context.Context, workspaceID, table string, record json.RawMessage) error

	// Update changes the given columns of an existing record
	Update(ctx context.Context, workspaceID, table, id string, fields json.RawMessage) error

	// Delete removes a record
	Delete(ctx context.Context, workspaceID, table, id string) error
}

// Network - источник состояния сети
type Network interface {
	IsOnline() bool
	Subscribe() (<-chan connectivity.State, func())
}
