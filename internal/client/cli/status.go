package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(opts *Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connection state, last sync time and queue counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.app.Auth.Session(cmd.Context())
			if err != nil {
				return err
			}

			status, err := opts.app.SyncStatus(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "text" {
				opts.printf("User:       %s\n", session.Username)
				opts.printf("Workspace:  %s\n", session.WorkspaceID)
			}
			return renderStatus(opts.IO, status, output, time.Local)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|yaml)")
	return cmd
}
