// Package server собирает HTTP API: маршруты, middleware и фоновые задачи.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/tradetrack/internal/server/handlers"
	"github.com/iudanet/tradetrack/internal/server/middleware"
	"github.com/iudanet/tradetrack/internal/server/storage"
)

// tokenCleanupInterval - период удаления просроченных refresh токенов
const tokenCleanupInterval = time.Hour

// healthPath не пишется в access log: клиенты опрашивают его постоянно
const healthPath = "/api/v1/health"

// Store - все хранилища, которые нужны серверу
type Store interface {
	storage.UserStorage
	storage.TokenStorage
	storage.WorkspaceStorage
	storage.RecordStorage
	handlers.Pinger
}

// Config - параметры HTTP сервера
type Config struct {
	Addr            string
	Version         string
	JWT             handlers.JWTConfig
	AuthRate        int
	AuthWindow      time.Duration
	TrustProxy      bool
	ShutdownTimeout time.Duration
}

// Server - HTTP сервер синхронизации
type Server struct {
	logger  *slog.Logger
	store   Store
	limiter *middleware.RateLimiter
	handler http.Handler
	cfg     Config
}

// New создает сервер и собирает маршруты
func New(cfg Config, store Store, logger *slog.Logger) *Server {
	s := &Server{
		logger:  logger,
		store:   store,
		limiter: middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthWindow, cfg.TrustProxy, logger),
		cfg:     cfg,
	}
	s.handler = s.routes()
	return s
}

// Handler возвращает корневой http.Handler со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	auth := handlers.NewAuthHandler(s.logger, s.store, s.store, s.cfg.JWT)
	health := handlers.NewHealthHandler(s.logger, s.store, s.cfg.Version)
	workspaces := handlers.NewWorkspaceHandler(s.logger, s.store)
	tables := handlers.NewTablesHandler(s.logger, s.store)

	requireAuth := middleware.AuthMiddleware(s.logger, s.cfg.JWT)
	inWorkspace := middleware.WorkspaceMiddleware(s.logger, s.store)

	limited := func(h http.HandlerFunc) http.Handler { return s.limiter.Middleware(h) }
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	scoped := func(h http.HandlerFunc) http.Handler { return requireAuth(inWorkspace(h)) }

	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/auth/register", limited(auth.Register))
	mux.Handle("GET /api/v1/auth/salt/{username}", limited(auth.GetSalt))
	mux.Handle("POST /api/v1/auth/login", limited(auth.Login))
	mux.Handle("POST /api/v1/auth/refresh", limited(auth.Refresh))
	mux.Handle("POST /api/v1/auth/logout", authed(auth.Logout))

	mux.HandleFunc("GET "+healthPath, health.Health)

	mux.Handle("POST /api/v1/workspaces", authed(workspaces.Create))
	mux.Handle("GET /api/v1/workspaces", authed(workspaces.List))

	mux.Handle("GET /api/v1/tables/{table}", scoped(tables.List))
	mux.Handle("POST /api/v1/tables/{table}", scoped(tables.Insert))
	mux.Handle("PATCH /api/v1/tables/{table}/{id}", scoped(tables.Update))
	mux.Handle("DELETE /api/v1/tables/{table}/{id}", scoped(tables.Delete))

	// recovery снаружи, чтобы паника в логировании тоже была перехвачена
	var h http.Handler = mux
	h = middleware.LoggingMiddleware(s.logger, healthPath)(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)
	return h
}

// Run обслуживает запросы до отмены ctx, затем корректно завершает соединения.
// Вместе с сервером работают очистка rate limiter и удаление просроченных токенов.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", slog.String("addr", s.cfg.Addr), slog.String("version", s.cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.limiter.Run(gctx)
	})

	g.Go(func() error {
		s.cleanupTokens(gctx)
		return nil
	})

	return g.Wait()
}

func (s *Server) cleanupTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.DeleteExpiredTokens(ctx)
			if err != nil {
				s.logger.Error("failed to delete expired tokens", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.Info("expired tokens deleted", slog.Int("count", n))
			}
		}
	}
}
