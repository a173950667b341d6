package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

// Status - снимок состояния синхронизации для отображения пользователю
type Status struct {
	LastSyncTime *time.Time          `json:"last_sync_time,omitempty" yaml:"last_sync_time,omitempty"`
	Counts       models.StatusCounts `json:"counts" yaml:"counts"`
	Online       bool                `json:"online" yaml:"online"`
	Syncing      bool                `json:"syncing" yaml:"syncing"`
}

func (s Status) equal(o Status) bool {
	if s.Online != o.Online || s.Syncing != o.Syncing || s.Counts != o.Counts {
		return false
	}
	if s.LastSyncTime == nil || o.LastSyncTime == nil {
		return s.LastSyncTime == o.LastSyncTime
	}
	return s.LastSyncTime.Equal(*o.LastSyncTime)
}

// Aggregator combines connectivity, drain activity and mutation log counts into
// one Status and publishes every change to read-only subscribers.
type Aggregator struct {
	log      storage.MutationLog
	metadata storage.MetadataStorage
	logger   *slog.Logger
	subs     map[int]chan Status
	status   Status
	mu       sync.Mutex
	next     int
}

// NewAggregator создает агрегатор с начальным состоянием сети
func NewAggregator(log storage.MutationLog, metadata storage.MetadataStorage, online bool, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		log:      log,
		metadata: metadata,
		logger:   logger,
		subs:     make(map[int]chan Status),
		status:   Status{Online: online},
	}
}

// Refresh recomputes counts and last sync time of the workspace from storage.
func (a *Aggregator) Refresh(ctx context.Context, workspaceID string) error {
	counts, err := a.log.CountsByStatus(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to count mutations: %w", err)
	}

	var last *time.Time
	t, err := a.metadata.GetLastSyncTime(ctx, workspaceID)
	if err != nil {
		// статус остается полезным и без времени последней синхронизации
		a.logger.Warn("Failed to get last sync time", slog.Any("error", err))
	} else if !t.IsZero() {
		last = &t
	}

	a.update(func(s *Status) {
		s.Counts = counts
		s.LastSyncTime = last
	})
	return nil
}

// SetOnline обновляет флаг сети
func (a *Aggregator) SetOnline(online bool) {
	a.update(func(s *Status) { s.Online = online })
}

// SetSyncing обновляет флаг активного прохода
func (a *Aggregator) SetSyncing(syncing bool) {
	a.update(func(s *Status) { s.Syncing = syncing })
}

// Reset забывает данные рабочего пространства (выход или смена пространства)
func (a *Aggregator) Reset() {
	a.update(func(s *Status) {
		s.Counts = models.StatusCounts{}
		s.LastSyncTime = nil
		s.Syncing = false
	})
}

// Snapshot возвращает текущий статус
func (a *Aggregator) Snapshot() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Subscribe returns a channel that receives the status after every change and
// a function that cancels the subscription. Only the latest status is kept.
func (a *Aggregator) Subscribe() (<-chan Status, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	ch := make(chan Status, 1)
	a.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
}

func (a *Aggregator) update(fn func(s *Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.status
	fn(&next)
	if next.equal(a.status) {
		return
	}
	a.status = next
	for _, ch := range a.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
