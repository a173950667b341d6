package cli

import (
	"github.com/spf13/cobra"
)

func newListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List local records of a table",
		Args:  cobra.ExactArgs(1),
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

			records, err := opts.app.Data.List(ctx, id.WorkspaceID, schema.Name)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				opts.printf("No %s\n", schema.Name)
				return nil
			}
			for _, rec := range records {
				opts.printf("%s  %-6s  %s\n", rec.ID, syncedMark(rec.IsSynced), summary(rec))
			}
			opts.printf("\nTotal: %d\n", len(records))
			return nil
		},
	}
}
