package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

func TestAggregator_Refresh(t *testing.T) {
	lastSync := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	log := &storage.MutationLogMock{
		CountsByStatusFunc: func(ctx context.Context, workspaceID string) (models.StatusCounts, error) {
			assert.Equal(t, testWorkspace, workspaceID)
			return models.StatusCounts{Pending: 2, Completed: 5, Failed: 1}, nil
		},
	}
	metadata := &storage.MetadataStorageMock{
		GetLastSyncTimeFunc: func(ctx context.Context, workspaceID string) (time.Time, error) {
			return lastSync, nil
		},
	}

	agg := NewAggregator(log, metadata, true, slog.New(slog.NewTextHandler(io.Discard, nil)))
	updates, cancel := agg.Subscribe()
	defer cancel()

	require.NoError(t, agg.Refresh(context.Background(), testWorkspace))

	st := <-updates
	assert.True(t, st.Online)
	assert.False(t, st.Syncing)
	assert.Equal(t, models.StatusCounts{Pending: 2, Completed: 5, Failed: 1}, st.Counts)
	require.NotNil(t, st.LastSyncTime)
	assert.True(t, lastSync.Equal(*st.LastSyncTime))
	assert.Equal(t, st, agg.Snapshot())

	// без изменений подписчик ничего не получает
	require.NoError(t, agg.Refresh(context.Background(), testWorkspace))
	select {
	case <-updates:
		t.Fatal("unexpected update without changes")
	default:
	}
}

func TestAggregator_RefreshErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("counts failure is returned", func(t *testing.T) {
		agg := NewAggregator(&storage.MutationLogMock{
			CountsByStatusFunc: func(ctx context.Context, workspaceID string) (models.StatusCounts, error) {
				return models.StatusCounts{}, errors.New("database is locked")
			},
		}, &storage.MetadataStorageMock{}, false, logger)

		err := agg.Refresh(context.Background(), testWorkspace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database is locked")
	})

	t.Run("missing last sync time is tolerated", func(t *testing.T) {
		agg := NewAggregator(&storage.MutationLogMock{
			CountsByStatusFunc: func(ctx context.Context, workspaceID string) (models.StatusCounts, error) {
				return models.StatusCounts{Pending: 1}, nil
			},
		}, &storage.MetadataStorageMock{
			GetLastSyncTimeFunc: func(ctx context.Context, workspaceID string) (time.Time, error) {
				return time.Time{}, errors.New("bucket missing")
			},
		}, false, logger)

		require.NoError(t, agg.Refresh(context.Background(), testWorkspace))
		st := agg.Snapshot()
		assert.Equal(t, 1, st.Counts.Pending)
		assert.Nil(t, st.LastSyncTime)
	})
}

func TestAggregator_FlagsAndReset(t *testing.T) {
	agg := NewAggregator(&storage.MutationLogMock{
		CountsByStatusFunc: func(ctx context.Context, workspaceID string) (models.StatusCounts, error) {
			return models.StatusCounts{Completed: 3}, nil
		},
	}, &storage.MetadataStorageMock{
		GetLastSyncTimeFunc: func(ctx context.Context, workspaceID string) (time.Time, error) {
			return time.Now(), nil
		},
	}, false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	updates, cancel := agg.Subscribe()

	agg.SetOnline(true)
	agg.SetSyncing(true)
	// в канале остается только последнее значение
	st := <-updates
	assert.True(t, st.Online)
	assert.True(t, st.Syncing)

	require.NoError(t, agg.Refresh(context.Background(), testWorkspace))
	agg.Reset()
	st = <-updates
	assert.True(t, st.Online, "сброс не меняет состояние сети")
	assert.False(t, st.Syncing)
	assert.Equal(t, 0, st.Counts.Total())
	assert.Nil(t, st.LastSyncTime)

	cancel()
	_, ok := <-updates
	assert.False(t, ok)
	agg.SetOnline(false)
}
