package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCommand(opts *Options) *cobra.Command {
	var noSync bool

	cmd := &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a local record; sales and purchases are deleted with their items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := resolveTable(args[0])
			if err != nil {
				return err
			}
			owner, err := opts.app.Owner(ctx)
			if err != nil {
				return err
			}

			if err := opts.app.Data.Delete(ctx, owner, schema.Name, args[1]); err != nil {
				return err
			}
			opts.printf("Deleted %s %s\n", inflectSingular(schema.Name), args[1])
			if !noSync {
				opts.push(ctx)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSync, "no-sync", false, "only queue the change, do not send it now")
	return cmd
}
