package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tradetrack/internal/config"
	"github.com/iudanet/tradetrack/internal/logging"
)

func newRunCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Keep syncing in the foreground until interrupted",
		Long: `Watch the server connection and send queued changes whenever the server
becomes reachable, on every sync interval and after local changes.

The log level is reloaded when the config file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if config.Watch(opts.v, opts.reloadLogLevel) {
				opts.logger.Info("Watching config file", "path", opts.v.ConfigFileUsed())
			}

			opts.printf("Syncing with %s, press Ctrl+C to stop\n", opts.cfg.ServerURL)
			if err := opts.app.Run(ctx); err != nil {
				return err
			}
			if ctx.Err() != nil && cmd.Context().Err() == nil {
				opts.logger.Info("Received shutdown signal")
			}
			opts.printf("Stopped\n")
			return nil
		},
	}
}

// reloadLogLevel применяет log.level из измененного файла конфигурации
func (o *Options) reloadLogLevel(v *viper.Viper) {
	level, err := logging.ParseLevel(v.GetString("log.level"))
	if err != nil {
		o.logger.Warn("Ignoring invalid log level from config", slog.Any("error", err))
		return
	}
	if level != o.level.Level() {
		o.level.Set(level)
		o.logger.Log(context.Background(), level, "Log level changed", "level", level.String())
	}
}
