package boltdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tradetrack/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketSession  = []byte("session")
	bucketMetadata = []byte("metadata")
)

// lockTimeout - сколько операция ждет файловую блокировку другого процесса
const lockTimeout = 2 * time.Second

// Storage хранит сессию пользователя и метаданные синхронизации.
//
// The file is opened for the duration of a single operation and closed right
// after it, so several tradetrack processes (for example `run` and `add`)
// share it. Reads take a shared lock, writes an exclusive one.
type Storage struct {
	path    string
	timeout time.Duration
	// bbolt держит flock на открытый файл: внутри процесса открытия тоже сериализуются
	mu     sync.RWMutex
	closed bool
}

// Compile-time checks
var (
	_ storage.SessionStorage  = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// New creates the database file if needed and initializes buckets
func New(ctx context.Context, dbPath string) (*Storage, error) {
	s := &Storage{path: dbPath, timeout: lockTimeout}
	if err := s.initBuckets(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close marks the storage closed. The file itself is never held open.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Storage) initBuckets(ctx context.Context) error {
	err := s.update(ctx, func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to initialize buckets: %w", err)
	}
	return nil
}

// update выполняет fn в пишущей транзакции на время открытия файла
func (s *Storage) update(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(ctx, false)
	if err != nil {
		return err
	}
	err = db.Update(fn)
	if cerr := db.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close boltdb: %w", cerr)
	}
	return err
}

// view выполняет fn в читающей транзакции; файл открывается только на чтение
func (s *Storage) view(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.open(ctx, true)
	if err != nil {
		return err
	}
	err = db.View(fn)
	if cerr := db.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close boltdb: %w", cerr)
	}
	return err
}

func (s *Storage) open(ctx context.Context, readOnly bool) (*bbolt.DB, error) {
	if s.closed {
		return nil, bbolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}
	return db, nil
}
