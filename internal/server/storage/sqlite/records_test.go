package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
)

func newStoredRecord(workspaceID, table, data string, at time.Time) *models.StoredRecord {
	return &models.StoredRecord{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Table:       table,
		Data:        []byte(data),
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestRecordStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ws := createTestWorkspace(t, s, createTestUser(t, s, "owner"), "Shop")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	rec := newStoredRecord(ws.ID, "products", `{"name":"Widget"}`, now)
	require.NoError(t, s.InsertRecord(ctx, rec))

	dup := *rec
	assert.ErrorIs(t, s.InsertRecord(ctx, &dup), storage.ErrRecordExists)

	got, err := s.GetRecord(ctx, ws.ID, "products", rec.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Widget"}`, string(got.Data))
	assert.True(t, now.Equal(got.CreatedAt))

	rec.Data = []byte(`{"name":"Gadget"}`)
	rec.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, s.UpdateRecord(ctx, rec))

	got, err = s.GetRecord(ctx, ws.ID, "products", rec.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gadget"}`, string(got.Data))
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
	assert.True(t, now.Equal(got.CreatedAt))

	require.NoError(t, s.DeleteRecord(ctx, ws.ID, "products", rec.ID))
	_, err = s.GetRecord(ctx, ws.ID, "products", rec.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	// удаление отсутствующей строки не ошибка
	require.NoError(t, s.DeleteRecord(ctx, ws.ID, "products", rec.ID))
	assert.ErrorIs(t, s.UpdateRecord(ctx, rec), storage.ErrRecordNotFound)
}

func TestRecordStorage_ScopedByWorkspaceAndTable(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, s, "owner")
	shop := createTestWorkspace(t, s, owner, "Shop")
	other := createTestWorkspace(t, s, owner, "Other")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := newStoredRecord(shop.ID, "products", `{"name":"A"}`, base)
	second := newStoredRecord(shop.ID, "products", `{"name":"B"}`, base.Add(time.Second))
	require.NoError(t, s.InsertRecord(ctx, second))
	require.NoError(t, s.InsertRecord(ctx, first))
	require.NoError(t, s.InsertRecord(ctx, newStoredRecord(shop.ID, "customers", `{"name":"C"}`, base)))
	require.NoError(t, s.InsertRecord(ctx, newStoredRecord(other.ID, "products", `{"name":"D"}`, base)))

	// тот же id в другом пространстве - другая строка
	same := *first
	same.WorkspaceID = other.ID
	require.NoError(t, s.InsertRecord(ctx, &same))

	list, err := s.ListRecords(ctx, shop.ID, "products")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	list, err = s.ListRecords(ctx, other.ID, "products")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.ListRecords(ctx, shop.ID, "sales")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
