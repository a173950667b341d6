package cli

import (
	"github.com/spf13/cobra"
)

func newGetCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Show all columns of a local record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := resolveTable(args[0])
			if err != nil {
				return err
			}
			id, err := opts.app.Identity(ctx)
			if err != nil {
				return err
			}

			rec, err := opts.app.Data.Get(ctx, id.WorkspaceID, schema.Name, args[1])
			if err != nil {
				return err
			}
			return renderRecord(opts.IO, rec)
		},
	}
}
