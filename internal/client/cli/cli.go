// Package cli implements the tradetrack command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tradetrack/internal/client/app"
	"github.com/iudanet/tradetrack/internal/client/iocli"
	"github.com/iudanet/tradetrack/internal/config"
	"github.com/iudanet/tradetrack/internal/logging"
)

// Options - глобальные флаги и собранные при запуске компоненты
type Options struct {
	IO         iocli.IO
	Stderr     io.Writer
	ConfigFile string
	Version    string

	v      *viper.Viper
	cfg    *config.Client
	app    *app.App
	logger *slog.Logger
	level  *slog.LevelVar
	closer io.Closer
}

// NewOptions создает Options для стандартных потоков
func NewOptions(version string) *Options {
	return &Options{
		IO:      iocli.NewStdio(),
		Stderr:  os.Stderr,
		Version: version,
	}
}

// NewRootCommand creates the root command. Every subcommand loads the
// configuration and opens the local stores before it runs.
func NewRootCommand(opts *Options) *cobra.Command {
	opts.v = config.New()

	cmd := &cobra.Command{
		Use:   "tradetrack",
		Short: "Offline-first records for a small trading business",
		Long: `tradetrack keeps products, customers, suppliers, sales and purchases in a
local database and sends every change to the server in the background.

Changes made offline are queued and delivered in order once the server is
reachable again. Use 'tradetrack run' to keep syncing in the background.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default $HOME/.tradetrack/config.yaml)")
	flags.String("server", "", "server URL")
	flags.String("data-dir", "", "directory for local databases")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	for key, flag := range map[string]string{
		"server_url": "server",
		"data_dir":   "data-dir",
		"log.level":  "log-level",
	} {
		_ = opts.v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWorkspaceCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newListCommand(opts),
		newGetCommand(opts),
		newSyncCommand(opts),
		newQueueCommand(opts),
		newStatusCommand(opts),
		newRunCommand(opts),
	)
	return cmd
}

// Execute runs the command tree with args and releases resources afterwards.
func Execute(ctx context.Context, opts *Options, args []string) error {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(opts.IO)
	cmd.SetErr(opts.Stderr)

	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, opts.Close())
}

func (o *Options) setup(ctx context.Context) error {
	cfg, err := config.LoadClient(o.v, o.ConfigFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	logger, level, closer, err := logging.New(cfg.Log, o.Stderr)
	if err != nil {
		return err
	}
	o.logger, o.level, o.closer = logger, level, closer

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

// Close закрывает хранилища и файл логов
func (o *Options) Close() error {
	var errs []error
	if o.app != nil {
		errs = append(errs, o.app.Close())
		o.app = nil
	}
	if o.closer != nil {
		errs = append(errs, o.closer.Close())
		o.closer = nil
	}
	return errors.Join(errs...)
}

func (o *Options) printf(format string, a ...any) {
	o.IO.Printf(format, a...)
}

func wrapf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(a, err)...)
}
