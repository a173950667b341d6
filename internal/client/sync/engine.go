// Package sync drains the local mutation log to the server.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/iudanet/tradetrack/internal/client/api"
	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

// DefaultRequestTimeout - таймаут одного удаленного вызова
const DefaultRequestTimeout = 15 * time.Second

var (
	// ErrOffline возвращается, если синхронизация запрошена без сети
	ErrOffline = errors.New("offline")
	// ErrSkipped возвращается, если проход уже выполняется; запрос будет выполнен после него
	ErrSkipped = errors.New("sync already in progress")
	// ErrNoIdentity возвращается, если пользователь не вошел или не выбрано рабочее пространство
	ErrNoIdentity = errors.New("no signed-in user or workspace")
)

// Identity - пользователь и рабочее пространство, чьи изменения отправляются
type Identity struct {
	UserID      string
	WorkspaceID string
}

// PassResult - итог одного или нескольких подряд выполненных проходов
type PassResult struct {
	Attempted   int  // сколько записей отправлено на сервер
	Completed   int  // сколько применено успешно
	Retried     int  // сколько остались pending после ошибки
	Failed      int  // сколько перешли в failed
	Interrupted bool // проход остановлен до конца снимка
}

func (r *PassResult) add(o PassResult) {
	r.Attempted += o.Attempted
	r.Completed += o.Completed
	r.Retried += o.Retried
	r.Failed += o.Failed
	r.Interrupted = r.Interrupted || o.Interrupted
}

// Option настраивает Engine
type Option func(*Engine)

// WithRequestTimeout задает таймаут одного удаленного вызова
func WithRequestTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.requestTimeout = d
		}
	}
}

// WithMaxAttempts задает число попыток до перевода записи в failed
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Connectivity - текущее состояние сети
type Connectivity interface {
	IsOnline() bool
}

// Engine drains pending mutations of the current identity to the server.
// At most one pass runs at a time; requests that arrive during a pass are
// coalesced into a single follow-up pass.
type Engine struct {
	log      storage.MutationLog
	records  storage.RecordStore
	remote   Remote
	network  Connectivity
	status   *Aggregator
	metadata storage.MetadataStorage
	logger   *slog.Logger
	now      func() time.Time
	sem      *semaphore.Weighted
	identity Identity
	wg       sync.WaitGroup
	// idMu защищает identity и generation; запись результата выполняется под RLock
	idMu           sync.RWMutex
	generation     uint64
	requestTimeout time.Duration
	maxAttempts    int
	followUp       atomic.Bool
}

// NewEngine creates a sync engine
func NewEngine(
	log storage.MutationLog,
	records storage.RecordStore,
	remote Remote,
	network Connectivity,
	status *Aggregator,
	metadata storage.MetadataStorage,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		log:            log,
		records:        records,
		remote:         remote,
		network:        network,
		status:         status,
		metadata:       metadata,
		logger:         logger,
		now:            time.Now,
		sem:            semaphore.NewWeighted(1),
		requestTimeout: DefaultRequestTimeout,
		maxAttempts:    models.MaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetIdentity binds the engine to a user and workspace. A pass that started
// under a previous identity stops before writing any further outcome.
func (e *Engine) SetIdentity(id Identity) {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	e.identity = id
	e.generation++
}

// ClearIdentity is called on sign-out. It returns once no outcome write of a
// running pass is in progress, so the caller may clear local data afterwards.
func (e *Engine) ClearIdentity() {
	e.SetIdentity(Identity{})
}

// Identity возвращает текущую привязку
func (e *Engine) Identity() Identity {
	e.idMu.RLock()
	defer e.idMu.RUnlock()
	return e.identity
}

// RequestDrain starts a pass in the background and returns immediately.
// Offline or without identity it does nothing. If a pass is running, one
// follow-up pass is scheduled instead.
func (e *Engine) RequestDrain(ctx context.Context) {
	if !e.network.IsOnline() {
		e.logger.Debug("Drain requested while offline, ignoring")
		return
	}
	if e.Identity().WorkspaceID == "" {
		return
	}
	if !e.acquire() {
		e.logger.Debug("Drain already running, follow-up scheduled")
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if _, err := e.drain(ctx); err != nil && !errors.Is(err, ErrNoIdentity) {
			e.logger.Error("Sync pass failed", slog.Any("error", err))
		}
	}()
}

// SyncNow runs a pass and waits for it. If another pass is running it returns
// ErrSkipped right away and the request is served by that pass's follow-up.
func (e *Engine) SyncNow(ctx context.Context) (PassResult, error) {
	if e.Identity().WorkspaceID == "" {
		return PassResult{}, ErrNoIdentity
	}
	if !e.network.IsOnline() {
		return PassResult{}, ErrOffline
	}
	if !e.acquire() {
		return PassResult{}, ErrSkipped
	}
	return e.drain(ctx)
}

// Wait блокируется до завершения фоновых проходов
func (e *Engine) Wait() {
	e.wg.Wait()
}

// acquire занимает слот прохода или оставляет запрос на повтор
func (e *Engine) acquire() bool {
	if e.sem.TryAcquire(1) {
		return true
	}
	e.followUp.Store(true)
	// владелец мог освободить слот между двумя проверками
	return e.sem.TryAcquire(1)
}

// drain runs passes while follow-ups are requested. The slot must be held.
func (e *Engine) drain(ctx context.Context) (PassResult, error) {
	var total PassResult
	for {
		e.followUp.Store(false)
		res, err := e.pass(ctx)
		total.add(res)
		e.sem.Release(1)

		if err != nil {
			return total, err
		}
		if !e.followUp.Load() || !e.network.IsOnline() || ctx.Err() != nil {
			return total, nil
		}
		if !e.sem.TryAcquire(1) {
			// повторный проход уже запущен другим запросом
			return total, nil
		}
		e.logger.Debug("Running follow-up sync pass")
	}
}

// pass applies a snapshot of pending mutations in order. Records enqueued
// after the snapshot are left for the next pass.
func (e *Engine) pass(ctx context.Context) (PassResult, error) {
	var res PassResult

	e.idMu.RLock()
	id, gen := e.identity, e.generation
	e.idMu.RUnlock()
	if id.WorkspaceID == "" {
		return res, ErrNoIdentity
	}

	if e.status != nil {
		e.status.SetSyncing(true)
		defer e.status.SetSyncing(false)
	}

	pending, err := e.log.ListPending(ctx, id.WorkspaceID)
	if err != nil {
		return res, fmt.Errorf("failed to list pending mutations: %w", err)
	}
	if len(pending) == 0 {
		e.finishPass(ctx, id, gen)
		return res, nil
	}

	e.logger.Info("Starting sync pass", "workspace_id", id.WorkspaceID, "pending", len(pending))

	for i := range pending {
		rec := &pending[i]

		if ctx.Err() != nil || !e.network.IsOnline() || !e.isCurrent(gen) {
			res.Interrupted = true
			break
		}

		res.Attempted++
		applyErr := e.apply(ctx, id.WorkspaceID, rec)

		stop, err := e.recordOutcome(ctx, gen, rec, applyErr, &res)
		if err != nil {
			return res, err
		}
		if stop {
			res.Interrupted = true
			break
		}
	}

	e.finishPass(ctx, id, gen)

	e.logger.Info("Sync pass finished",
		"workspace_id", id.WorkspaceID,
		"attempted", res.Attempted,
		"completed", res.Completed,
		"retried", res.Retried,
		"failed", res.Failed,
		"interrupted", res.Interrupted)
	return res, nil
}

// apply отправляет одну запись на сервер
func (e *Engine) apply(ctx context.Context, workspaceID string, rec *models.MutationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	if rec.Operation == models.OperationDelete {
		return e.remote.Delete(ctx, workspaceID, rec.EntityTable, rec.EntityID)
	}

	payload, err := models.DecodePayload(rec.EntityTable, rec.Payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	switch rec.Operation {
	case models.OperationCreate:
		return e.remote.Insert(ctx, workspaceID, rec.EntityTable, body)
	case models.OperationUpdate:
		return e.remote.Update(ctx, workspaceID, rec.EntityTable, rec.EntityID, body)
	default:
		return fmt.Errorf("unknown operation %q", rec.Operation)
	}
}

// recordOutcome writes the result of one remote call to the log.
// It returns stop=true when the pass must end without touching the record.
func (e *Engine) recordOutcome(ctx context.Context, gen uint64, rec *models.MutationRecord, applyErr error, res *PassResult) (bool, error) {
	e.idMu.RLock()
	defer e.idMu.RUnlock()

	// пользователь вышел или сменил пространство во время вызова
	if e.generation != gen {
		return true, nil
	}

	// ответ сервера уже получен: результат записывается и после отмены ctx
	wctx := context.WithoutCancel(ctx)

	if applyErr != nil && delivered(rec, applyErr) {
		e.logger.Info("Record already on server, treating create as delivered",
			"mutation_id", rec.ID,
			"table", rec.EntityTable,
			"entity_id", rec.EntityID)
		applyErr = nil
	}

	if applyErr == nil {
		if err := e.log.MarkCompleted(wctx, rec.ID); err != nil {
			if errors.Is(err, storage.ErrMutationNotPending) {
				// запись уже обработал проход другого процесса
				e.logger.Debug("Mutation already recorded", "mutation_id", rec.ID)
				return false, nil
			}
			return false, fmt.Errorf("failed to mark mutation %s completed: %w", rec.ID, err)
		}
		if rec.Operation != models.OperationDelete {
			err := e.records.MarkSynced(wctx, rec.WorkspaceID, rec.EntityTable, rec.EntityID)
			// строку могли удалить локально после постановки в очередь
			if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
				return false, fmt.Errorf("failed to mark %s/%s synced: %w", rec.EntityTable, rec.EntityID, err)
			}
		}
		res.Completed++
		return false, nil
	}

	// остановка не считается попыткой
	if ctx.Err() != nil {
		return true, nil
	}
	// сеть пропала во время вызова: запись остается как есть
	if api.IsNetwork(applyErr) && !e.network.IsOnline() {
		e.logger.Info("Connection lost during sync, stopping pass", "mutation_id", rec.ID)
		return true, nil
	}

	updated, err := e.log.RecordAttempt(wctx, rec.ID, applyErr.Error(), e.maxAttempts)
	if errors.Is(err, storage.ErrMutationNotPending) {
		e.logger.Debug("Mutation already recorded", "mutation_id", rec.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record attempt for mutation %s: %w", rec.ID, err)
	}

	if updated.Status == models.StatusFailed {
		res.Failed++
		e.logger.Error("Mutation failed permanently",
			"mutation_id", rec.ID,
			"table", rec.EntityTable,
			"entity_id", rec.EntityID,
			"operation", rec.Operation,
			"attempts", updated.Attempts,
			slog.Any("error", applyErr))
	} else {
		res.Retried++
		e.logger.Warn("Mutation apply failed, will retry",
			"mutation_id", rec.ID,
			"table", rec.EntityTable,
			"attempts", updated.Attempts,
			slog.Any("error", applyErr))
	}
	return false, nil
}

// delivered сообщает, что создание уже применено сервером: строка с этим id
// существует в пространстве, например после потерянного ответа на первую вставку.
func delivered(rec *models.MutationRecord, err error) bool {
	return rec.Operation == models.OperationCreate && api.KindOf(err) == api.KindConflict
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.idMu.RLock()
	defer e.idMu.RUnlock()
	return e.generation == gen
}

// finishPass сохраняет время прохода и обновляет статус
func (e *Engine) finishPass(ctx context.Context, id Identity, gen uint64) {
	e.idMu.RLock()
	defer e.idMu.RUnlock()
	if e.generation != gen || ctx.Err() != nil {
		return
	}

	if err := e.metadata.SaveLastSyncTime(ctx, id.WorkspaceID, e.now()); err != nil {
		e.logger.Warn("Failed to save last sync time", slog.Any("error", err))
	}
	if e.status != nil {
		if err := e.status.Refresh(ctx, id.WorkspaceID); err != nil {
			e.logger.Warn("Failed to refresh sync status", slog.Any("error", err))
		}
	}
}
