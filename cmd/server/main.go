package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tradetrack/internal/config"
	"github.com/iudanet/tradetrack/internal/logging"
	"github.com/iudanet/tradetrack/internal/server"
	"github.com/iudanet/tradetrack/internal/server/handlers"
	"github.com/iudanet/tradetrack/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configFile string

	cmd := &cobra.Command{
		Use:           "tradetrack-server",
		Short:         "TradeTrack sync server",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to config file (default $HOME/.tradetrack/config.yaml)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	v := config.New()
	cfg, err := config.LoadServer(v, configFile)
	if err != nil {
		return err
	}

	logger, level, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer closer.Close()

	// уровень логирования можно менять без перезапуска
	config.Watch(v, func(v *viper.Viper) {
		lvl, err := logging.ParseLevel(v.GetString("log.level"))
		if err != nil {
			logger.Warn("ignoring invalid log level", slog.Any("error", err))
			return
		}
		level.Set(lvl)
		logger.Info("log level changed", slog.String("level", lvl.String()))
	})

	store, err := sqlite.New(ctx, cfg.DBFile)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	srv := server.New(server.Config{
		Addr:    cfg.Addr,
		Version: Version,
		JWT: handlers.JWTConfig{
			Secret:          []byte(cfg.JWTSecret),
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
		},
		AuthRate:        cfg.RateLimit.Auth,
		AuthWindow:      cfg.RateLimit.Window,
		TrustProxy:      cfg.RateLimit.TrustProxy,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, store, logger)

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
