package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/tradetrack/internal/client/storage"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "session_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNew_CreatesBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.view(context.Background(), func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSession, bucketMetadata} {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose_NilSafe(t *testing.T) {
	var s *Storage
	assert.NoError(t, s.Close())
}

func TestStorage_SharedByTwoProcesses(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	// второй экземпляр открывает тот же файл, пока первый жив
	first, err := New(ctx, dbPath)
	require.NoError(t, err)
	second, err := New(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, first.Close())
		assert.NoError(t, second.Close())
	})

	require.NoError(t, first.SaveSession(ctx, &storage.Session{Username: "alice", WorkspaceID: "ws-1"}))
	got, err := second.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", got.WorkspaceID)

	var wg sync.WaitGroup
	for i, s := range []*Storage{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws := fmt.Sprintf("ws-%d", i)
			for j := 0; j < 5; j++ {
				assert.NoError(t, s.SaveLastSyncTime(ctx, ws, time.Unix(int64(j), 0)))
				_, err := s.GetLastSyncTime(ctx, ws)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	last, err := first.GetLastSyncTime(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), last.Unix())
}

func TestStorage_LockHeldByAnotherOpen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	store.timeout = 50 * time.Millisecond

	held, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)

	err = store.SaveSession(ctx, &storage.Session{Username: "alice"})
	require.ErrorIs(t, err, bbolt.ErrTimeout)

	require.NoError(t, held.Close())
	require.NoError(t, store.SaveSession(ctx, &storage.Session{Username: "alice"}))
}

func TestStorage_Closed(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.Close())

	_, err := store.GetSession(ctx)
	require.ErrorIs(t, err, bbolt.ErrDatabaseNotOpen)
	require.ErrorIs(t, store.SaveLastSyncTime(ctx, "ws-1", time.Now()), bbolt.ErrDatabaseNotOpen)
}

func TestSession_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetSession(ctx)
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	session := &storage.Session{
		Username:     "alice",
		UserID:       "u-1",
		WorkspaceID:  "ws-1",
		AccessToken:  "access",
		RefreshToken: "refresh",
		PublicSalt:   "salt",
		ExpiresAt:    1700000000,
	}
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	// Перезапись
	session.WorkspaceID = "ws-2"
	require.NoError(t, store.SaveSession(ctx, session))
	got, err = store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ws-2", got.WorkspaceID)

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.GetSession(ctx)
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление не ошибка
	require.NoError(t, store.DeleteSession(ctx))
	assert.Error(t, store.SaveSession(ctx, nil))
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.True(t, (&storage.Session{ExpiresAt: 999}).IsExpired(now))
	assert.True(t, (&storage.Session{ExpiresAt: 1000}).IsExpired(now))
	assert.False(t, (&storage.Session{ExpiresAt: 1001}).IsExpired(now))
	assert.False(t, (&storage.Session{}).IsExpired(now))
}

func TestLastSyncTime(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	got, err := store.GetLastSyncTime(ctx, "ws-1")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	ts := time.Date(2024, 5, 1, 12, 30, 0, 123, time.UTC)
	require.NoError(t, store.SaveLastSyncTime(ctx, "ws-1", ts))

	got, err = store.GetLastSyncTime(ctx, "ws-1")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	other, err := store.GetLastSyncTime(ctx, "ws-2")
	require.NoError(t, err)
	assert.True(t, other.IsZero())

	require.NoError(t, store.DeleteWorkspace(ctx, "ws-1"))
	got, err = store.GetLastSyncTime(ctx, "ws-1")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
