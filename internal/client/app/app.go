// Package app assembles the client: local stores, the API client, the sync
// engine with its scheduler and the services used by CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/iudanet/tradetrack/internal/client/api"
	"github.com/iudanet/tradetrack/internal/client/auth"
	"github.com/iudanet/tradetrack/internal/client/connectivity"
	"github.com/iudanet/tradetrack/internal/client/data"
	"github.com/iudanet/tradetrack/internal/client/storage/boltdb"
	"github.com/iudanet/tradetrack/internal/client/storage/sqlite"
	clientsync "github.com/iudanet/tradetrack/internal/client/sync"
	"github.com/iudanet/tradetrack/internal/config"
	"github.com/iudanet/tradetrack/internal/models"
	pkgapi "github.com/iudanet/tradetrack/pkg/api"
)

// ErrNoWorkspace возвращается, если рабочее пространство не выбрано
var ErrNoWorkspace = errors.New("no workspace selected, run 'tradetrack workspace use <id>' first")

// App holds every long-lived client component. It is created once per process.
type App struct {
	API       *api.Client
	Auth      auth.Service
	Data      data.Service
	Monitor   *connectivity.Monitor
	Prober    *connectivity.Prober
	Status    *clientsync.Aggregator
	Engine    *clientsync.Engine
	Scheduler *clientsync.Scheduler

	store  *sqlite.Storage
	bolt   *boltdb.Storage
	logger *slog.Logger
}

// New opens the local stores under cfg.DataDir and wires the components.
func New(ctx context.Context, cfg *config.Client, logger *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := sqlite.New(ctx, cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	bolt, err := boltdb.New(ctx, cfg.SessionPath())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	a := &App{
		API:     api.NewClient(cfg.ServerURL),
		Monitor: connectivity.NewMonitor(false),
		store:   store,
		bolt:    bolt,
		logger:  logger,
	}

	a.Auth = auth.NewService(a.API, bolt, logger.With("component", "auth"))
	a.Prober = connectivity.NewProber(a.API, a.Monitor, cfg.ProbeInterval, cfg.ProbeTimeout, logger.With("component", "connectivity"))
	a.Status = clientsync.NewAggregator(store, bolt, a.Monitor.IsOnline(), logger.With("component", "status"))
	a.Engine = clientsync.NewEngine(
		store,
		store,
		&sessionRemote{api: a.API, auth: a.Auth},
		a.Monitor,
		a.Status,
		bolt,
		logger.With("component", "sync"),
		clientsync.WithRequestTimeout(cfg.RequestTimeout),
	)
	a.Scheduler = clientsync.NewScheduler(a.Engine, a.Status, a.Monitor, cfg.SyncInterval, logger.With("component", "scheduler"))
	a.Data = data.NewService(store, a.Scheduler, logger.With("component", "data"))

	return a, nil
}

// Close останавливает планировщик и закрывает хранилища
func (a *App) Close() error {
	a.Scheduler.Stop()
	return errors.Join(a.store.Close(), a.bolt.Close())
}

// Identity возвращает пользователя и рабочее пространство текущей сессии
func (a *App) Identity(ctx context.Context) (clientsync.Identity, error) {
	session, err := a.Auth.Session(ctx)
	if err != nil {
		return clientsync.Identity{}, err
	}
	if session.WorkspaceID == "" {
		return clientsync.Identity{}, ErrNoWorkspace
	}
	return clientsync.Identity{UserID: session.UserID, WorkspaceID: session.WorkspaceID}, nil
}

// Owner возвращает владельца для локальных записей
func (a *App) Owner(ctx context.Context) (data.Owner, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return data.Owner{}, err
	}
	return data.Owner{UserID: id.UserID, WorkspaceID: id.WorkspaceID}, nil
}

// bind привязывает движок к сессии, если планировщик не сделал этого сам
func (a *App) bind(ctx context.Context) (clientsync.Identity, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return id, err
	}
	if a.Engine.Identity() != id {
		a.Engine.SetIdentity(id)
	}
	return id, nil
}

// SyncNow probes the server and runs a drain pass for the current workspace.
func (a *App) SyncNow(ctx context.Context) (clientsync.PassResult, error) {
	if _, err := a.bind(ctx); err != nil {
		return clientsync.PassResult{}, err
	}
	a.Status.SetOnline(a.Prober.Probe(ctx))
	return a.Engine.SyncNow(ctx)
}

// Push sends changes right after a local write. A running scheduler drains on
// the enqueue notification, so Push does nothing then. A one-shot process
// checks server health and runs a pass itself; ErrOffline means the change stays
// queued for a later sync.
func (a *App) Push(ctx context.Context) (clientsync.PassResult, error) {
	if a.Scheduler.Running() {
		return clientsync.PassResult{}, nil
	}
	return a.SyncNow(ctx)
}

// SyncStatus returns a fresh status snapshot. The connection is probed once.
func (a *App) SyncStatus(ctx context.Context) (clientsync.Status, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return clientsync.Status{}, err
	}
	a.Status.SetOnline(a.Prober.Probe(ctx))
	if err := a.Status.Refresh(ctx, id.WorkspaceID); err != nil {
		return clientsync.Status{}, err
	}
	return a.Status.Snapshot(), nil
}

// Queue возвращает записи журнала текущего пространства с указанными статусами
func (a *App) Queue(ctx context.Context, statuses ...models.MutationStatus) ([]models.MutationRecord, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return a.store.ListMutations(ctx, id.WorkspaceID, statuses...)
}

// Run starts the scheduler and the connectivity prober and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	id, err := a.Identity(ctx)
	if err != nil {
		return err
	}
	if err := a.Scheduler.Start(ctx, id); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer a.Scheduler.Stop()

	if err := a.Prober.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// CreateWorkspace creates a workspace on the server. The first workspace of a
// session becomes the current one.
func (a *App) CreateWorkspace(ctx context.Context, name string) (*pkgapi.Workspace, error) {
	var ws *pkgapi.Workspace
	err := a.withToken(ctx, func(token string) error {
		var err error
		ws, err = a.API.CreateWorkspace(ctx, token, pkgapi.CreateWorkspaceRequest{ID: uuid.NewString(), Name: name})
		return err
	})
	if err != nil {
		return nil, err
	}

	session, err := a.Auth.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session.WorkspaceID == "" {
		if err := a.UseWorkspace(ctx, ws.ID); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// ListWorkspaces возвращает рабочие пространства пользователя
func (a *App) ListWorkspaces(ctx context.Context) ([]pkgapi.Workspace, error) {
	var list []pkgapi.Workspace
	err := a.withToken(ctx, func(token string) error {
		var err error
		list, err = a.API.ListWorkspaces(ctx, token)
		return err
	})
	return list, err
}

// UseWorkspace makes workspaceID current. A running scheduler is switched to it.
func (a *App) UseWorkspace(ctx context.Context, workspaceID string) error {
	session, err := a.Auth.UseWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	id := clientsync.Identity{UserID: session.UserID, WorkspaceID: session.WorkspaceID}

	if a.Scheduler.Running() {
		return a.Scheduler.Switch(ctx, id)
	}
	a.Engine.SetIdentity(id)
	a.Status.Reset()
	return a.Status.Refresh(ctx, workspaceID)
}

// SignOut stops syncing, waits for the running pass, removes the local data
// of the current workspace and then ends the session.
func (a *App) SignOut(ctx context.Context) error {
	session, err := a.Auth.Session(ctx)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return nil
	}
	if err != nil {
		return err
	}

	a.Scheduler.Stop()
	// после ClearIdentity ни один проход не запишет результат
	a.Engine.ClearIdentity()

	if ws := session.WorkspaceID; ws != "" {
		if err := a.store.ClearAll(ctx, ws); err != nil {
			return fmt.Errorf("failed to clear local data: %w", err)
		}
		if err := a.bolt.DeleteWorkspace(ctx, ws); err != nil {
			return fmt.Errorf("failed to clear sync metadata: %w", err)
		}
	}
	a.Status.Reset()

	return a.Auth.Logout(ctx)
}

// withToken выполняет вызов сервера с токеном сессии
func (a *App) withToken(ctx context.Context, call func(token string) error) error {
	r := sessionRemote{api: a.API, auth: a.Auth}
	return r.withToken(ctx, call)
}
