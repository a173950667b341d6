package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultInterval - период фоновой синхронизации
const DefaultInterval = 5 * time.Minute

// ErrSchedulerRunning возвращается при повторном Start
var ErrSchedulerRunning = errors.New("scheduler already running")

// TriggerReason - источник запроса на синхронизацию
type TriggerReason string

const (
	ReasonStart    TriggerReason = "start"
	ReasonInterval TriggerReason = "interval"
	ReasonOnline   TriggerReason = "online"
	ReasonEnqueued TriggerReason = "enqueued"
)

// Trigger - один запрос на синхронизацию
type Trigger struct {
	Reason TriggerReason
}

// Scheduler turns periodic ticks, connectivity transitions and local enqueues
// into drain requests. All producers write into one channel that a single
// consumer forwards to the engine.
type Scheduler struct {
	engine   *Engine
	status   *Aggregator
	network  Network
	logger   *slog.Logger
	triggers chan Trigger
	cancel   context.CancelFunc
	group    *errgroup.Group
	interval time.Duration
	mu       sync.Mutex
}

// NewScheduler создает планировщик
func NewScheduler(engine *Engine, status *Aggregator, network Network, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		engine:   engine,
		status:   status,
		network:  network,
		logger:   logger,
		triggers: make(chan Trigger, 1),
		interval: interval,
	}
}

// Start binds the engine to the identity and starts the producers and the
// consumer. A drain is requested right away to pick up work left from a
// previous run.
func (s *Scheduler) Start(ctx context.Context, id Identity) error {
	if id.WorkspaceID == "" {
		return ErrNoIdentity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return ErrSchedulerRunning
	}

	s.engine.SetIdentity(id)
	if s.status != nil {
		s.status.Reset()
		s.status.SetOnline(s.network.IsOnline())
		if err := s.status.Refresh(ctx, id.WorkspaceID); err != nil {
			s.logger.Warn("Failed to refresh sync status", slog.Any("error", err))
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return s.consume(gctx) })
	g.Go(func() error { return s.tick(gctx) })
	g.Go(func() error { return s.watchNetwork(gctx) })

	s.cancel = cancel
	s.group = g

	s.logger.Info("Sync scheduler started",
		"workspace_id", id.WorkspaceID,
		"interval", s.interval.String())
	s.send(ReasonStart)
	return nil
}

// Stop stops all producers and waits for a running pass to finish.
// The engine identity is left as is; sign-out clears it separately.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.group == nil {
		return
	}
	s.cancel()
	if err := s.group.Wait(); err != nil {
		s.logger.Warn("Sync scheduler stopped with error", slog.Any("error", err))
	}
	s.engine.Wait()

	s.group = nil
	s.cancel = nil
	// запросы, оставшиеся в канале, относятся к прежней привязке
	select {
	case <-s.triggers:
	default:
	}
	s.logger.Info("Sync scheduler stopped")
}

// Switch stops the scheduler, rebinds the engine to the new identity and starts again.
func (s *Scheduler) Switch(ctx context.Context, id Identity) error {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
	return s.Start(ctx, id)
}

// Running сообщает, запущен ли планировщик
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group != nil
}

// NotifyEnqueued is called after a local write was queued. Offline it does
// nothing; the transition back online triggers the drain.
func (s *Scheduler) NotifyEnqueued() {
	if !s.network.IsOnline() {
		return
	}
	s.send(ReasonEnqueued)
}

// send не блокируется: если запрос уже ждет в канале, новый ничего не добавит
func (s *Scheduler) send(reason TriggerReason) {
	select {
	case s.triggers <- Trigger{Reason: reason}:
	default:
	}
}

func (s *Scheduler) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-s.triggers:
			s.logger.Debug("Sync triggered", "reason", string(t.Reason))
			s.engine.RequestDrain(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.network.IsOnline() {
				s.send(ReasonInterval)
			}
		}
	}
}

func (s *Scheduler) watchNetwork(ctx context.Context) error {
	states, unsubscribe := s.network.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			if s.status != nil {
				s.status.SetOnline(st.Online)
			}
			if st.Online {
				s.send(ReasonOnline)
			}
		}
	}
}
