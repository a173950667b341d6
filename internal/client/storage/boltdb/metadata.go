package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

func lastSyncKey(workspaceID string) []byte {
	return []byte("last_sync_time:" + workspaceID)
}

// SaveLastSyncTime saves the time of the last finished drain pass
func (s *Storage) SaveLastSyncTime(ctx context.Context, workspaceID string, t time.Time) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// UnixNano в big-endian
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, uint64(t.UnixNano()))

		if err := bucket.Put(lastSyncKey(workspaceID), value); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}
		return nil
	})
}

// GetLastSyncTime returns zero time if workspace was never synced
func (s *Storage) GetLastSyncTime(ctx context.Context, workspaceID string) (time.Time, error) {
	var result time.Time

	err := s.view(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		value := bucket.Get(lastSyncKey(workspaceID))
		if len(value) != 8 {
			return nil
		}
		result = time.Unix(0, int64(binary.BigEndian.Uint64(value))).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return result, nil
}

// DeleteWorkspace removes metadata of the workspace
func (s *Storage) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		return bucket.Delete(lastSyncKey(workspaceID))
	})
}
