package data

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/client/storage/sqlite"
	"github.com/iudanet/tradetrack/internal/models"
)

var testOwner = Owner{UserID: "user-1", WorkspaceID: "ws-1"}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) NotifyEnqueued() { n.calls++ }

func newTestService(t *testing.T) (*service, *sqlite.Storage, *countingNotifier) {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	notifier := &countingNotifier{}
	svc := NewService(store, notifier, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	return svc, store, notifier
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newTestService(t)

	rec, err := svc.Create(ctx, testOwner, "products", models.Payload{"name": "Widget", "current_stock": 10.0})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.IsSynced)
	assert.Equal(t, "Widget", rec.Fields["name"])
	assert.Equal(t, "user-1", rec.Fields[models.ColumnCreatedBy])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", rec.Fields[models.ColumnCreatedAt])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", rec.Fields[models.ColumnUpdatedAt])
	assert.Equal(t, 1, notifier.calls)

	pending, err := store.ListPending(ctx, testOwner.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].EntityID)
	assert.Equal(t, models.OperationCreate, pending[0].Operation)
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newTestService(t)

	tests := []struct {
		name    string
		table   string
		fields  models.Payload
		wantErr error
	}{
		{name: "unknown table", table: "secrets", fields: models.Payload{"name": "x"}, wantErr: models.ErrUnknownTable},
		{name: "missing required", table: "customers", fields: models.Payload{"phone": "1"}, wantErr: models.ErrInvalidPayload},
		{name: "wrong type", table: "products", fields: models.Payload{"name": "x", "current_stock": "ten"}, wantErr: models.ErrInvalidPayload},
		{name: "unknown column", table: "products", fields: models.Payload{"name": "x", "colour": "red"}, wantErr: models.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testOwner, tt.table, tt.fields)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Create(ctx, testOwner, "sale_items", models.Payload{"sale_id": "s1"})
	require.Error(t, err)

	_, err = svc.Create(ctx, Owner{UserID: "user-1"}, "products", models.Payload{"name": "x"})
	require.Error(t, err)

	counts, err := store.CountsByStatus(ctx, testOwner.WorkspaceID)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Total())
	assert.Equal(t, 0, notifier.calls)
}

func TestService_CreateWithItems(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newTestService(t)

	sale, err := svc.CreateWithItems(ctx, testOwner, "sales",
		models.Payload{"customer_id": "c1", "sale_date": "2024-05-01", "total_amount": 30.0, "payment_method": "cash"},
		[]models.Payload{
			{"product_id": "p1", "quantity": 1.0, "unit_price": 10.0, "total_price": 10.0},
			{"product_id": "p2", "quantity": 2.0, "unit_price": 10.0, "total_price": 20.0},
		})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)

	items, err := store.ListRecords(ctx, testOwner.WorkspaceID, "sale_items")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, sale.ID, item.Fields["sale_id"])
		assert.NotContains(t, item.Fields, models.ColumnCreatedBy)
	}

	pending, err := store.ListPending(ctx, testOwner.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "sales", pending[0].EntityTable)
	assert.Equal(t, "sale_items", pending[1].EntityTable)
	assert.Equal(t, "sale_items", pending[2].EntityTable)

	// документ без позиций или с неверной позицией не сохраняется
	_, err = svc.CreateWithItems(ctx, testOwner, "purchases", models.Payload{"supplier_id": "s1"}, nil)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = svc.CreateWithItems(ctx, testOwner, "purchases",
		models.Payload{"supplier_id": "s1", "purchase_date": "2024-05-01", "total_amount": 5.0, "payment_method": "card"},
		[]models.Payload{{"product_id": "p1"}})
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	purchases, err := store.ListRecords(ctx, testOwner.WorkspaceID, "purchases")
	require.NoError(t, err)
	assert.Empty(t, purchases)

	_, err = svc.CreateWithItems(ctx, testOwner, "products", models.Payload{"name": "x"}, []models.Payload{{}})
	require.Error(t, err)
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newTestService(t)

	rec, err := svc.Create(ctx, testOwner, "customers", models.Payload{"name": "Acme"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }
	updated, err := svc.Update(ctx, testOwner, "customers", rec.ID, models.Payload{"phone": "+100"})
	require.NoError(t, err)
	assert.Equal(t, "+100", updated.Fields["phone"])
	assert.Equal(t, "2024-05-02T08:00:00.000Z", updated.Fields[models.ColumnUpdatedAt])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", updated.Fields[models.ColumnCreatedAt])

	_, err = svc.Update(ctx, testOwner, "customers", rec.ID, nil)
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = svc.Update(ctx, testOwner, "customers", "missing", models.Payload{"phone": "1"})
	require.ErrorIs(t, err, storage.ErrRecordNotFound)

	require.NoError(t, svc.Delete(ctx, testOwner, "customers", rec.ID))
	_, err = svc.Get(ctx, testOwner.WorkspaceID, "customers", rec.ID)
	require.ErrorIs(t, err, storage.ErrRecordNotFound)

	assert.Equal(t, 3, notifier.calls)

	pending, err := store.ListPending(ctx, testOwner.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, models.OperationUpdate, pending[1].Operation)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(pending[1].Payload, &fields))
	assert.Equal(t, map[string]any{"phone": "+100", "updated_at": "2024-05-02T08:00:00.000Z"}, fields)
}

func TestService_DeleteDocumentWithItems(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	purchase, err := svc.CreateWithItems(ctx, testOwner, "purchases",
		models.Payload{"supplier_id": "s1", "purchase_date": "2024-05-01", "total_amount": 5.0, "payment_method": "card"},
		[]models.Payload{{"product_id": "p1", "quantity": 1.0, "unit_cost": 5.0, "total_cost": 5.0}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testOwner, "purchases", purchase.ID))

	items, err := svc.List(ctx, testOwner.WorkspaceID, "purchase_items")
	require.NoError(t, err)
	assert.Empty(t, items)

	pending, err := store.ListPending(ctx, testOwner.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, pending, 4)
	assert.Equal(t, "purchase_items", pending[2].EntityTable)
	assert.Equal(t, models.OperationDelete, pending[2].Operation)
	assert.Equal(t, "purchases", pending[3].EntityTable)
}

func TestService_LocalErrorIsReturned(t *testing.T) {
	records := &storage.RecordStoreMock{
		ApplyFunc: func(ctx context.Context, workspaceID string, changes ...storage.Change) ([]models.MutationRecord, error) {
			return nil, errors.New("disk full")
		},
	}
	notifier := &countingNotifier{}
	svc := NewService(records, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Create(context.Background(), testOwner, "products", models.Payload{"name": "Widget"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save products: disk full")
	assert.Equal(t, 0, notifier.calls)
	assert.Empty(t, records.GetRecordCalls())
}
