package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/tradetrack/internal/client/sync"
	"github.com/iudanet/tradetrack/internal/models"
)

func newSyncCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued changes to the server now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.app.SyncNow(cmd.Context())
			switch {
			case errors.Is(err, clientsync.ErrOffline):
				return fmt.Errorf("server %s is unreachable, changes stay queued", opts.cfg.ServerURL)
			case errors.Is(err, clientsync.ErrSkipped):
				opts.printf("Sync is already running, queued changes will be sent by it\n")
				return nil
			case err != nil:
				return wrapf(err, "sync failed")
			}

			if res.Attempted == 0 {
				opts.printf("Nothing to sync\n")
				return nil
			}
			opts.printf("Sent %d change(s): %d completed, %d will be retried, %d failed\n",
				res.Attempted, res.Completed, res.Retried, res.Failed)
			if res.Interrupted {
				opts.printf("Sync was interrupted, the rest stays queued\n")
			}
			return nil
		},
	}
}

// push отправляет только что записанное изменение, если сервер доступен.
// Локальная запись уже сохранена, поэтому ошибки отправки не завершают команду.
func (o *Options) push(ctx context.Context) {
	res, err := o.app.Push(ctx)
	switch {
	case errors.Is(err, clientsync.ErrOffline):
		o.printf("Server %s is unreachable, the change stays queued\n", o.cfg.ServerURL)
	case errors.Is(err, clientsync.ErrSkipped):
	case err != nil:
		o.logger.Warn("Failed to send change", slog.Any("error", err))
		o.printf("The change stays queued: %v\n", err)
	case res.Retried > 0 || res.Failed > 0:
		o.printf("Sent %d change(s): %d completed, %d will be retried, %d failed\n",
			res.Attempted, res.Completed, res.Retried, res.Failed)
	case res.Completed > 0:
		o.printf("Synced %d change(s)\n", res.Completed)
	}
}

func newQueueCommand(opts *Options) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show queued and failed changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]models.MutationStatus, 0, len(statuses))
			for _, s := range statuses {
				st := models.MutationStatus(strings.ToLower(s))
				switch st {
				case models.StatusPending, models.StatusCompleted, models.StatusFailed:
					filter = append(filter, st)
				default:
					return fmt.Errorf("unknown status %q", s)
				}
			}

			records, err := opts.app.Queue(cmd.Context(), filter...)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				opts.printf("Queue is empty\n")
				return nil
			}

			for _, rec := range records {
				opts.printf("%s  %-9s %-6s %s/%s  attempts=%d\n",
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					rec.Status, rec.Operation, rec.EntityTable, rec.EntityID, rec.Attempts)
				if rec.LastError != nil {
					opts.printf("    last error: %s\n", *rec.LastError)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", []string{string(models.StatusPending), string(models.StatusFailed)},
		"statuses to show (pending,completed,failed)")
	return cmd
}
