package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newUpdateCommand(opts *Options) *cobra.Command {
	var (
		set    []string
		noSync bool
	)

	cmd := &cobra.Command{
		Use:     "update <type> <id>",
		Short:   "Change columns of a local record",
		Example: `  tradetrack update product 3f1c... --set current_stock=12`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := resolveTable(args[0])
			if err != nil {
				return err
			}
			if len(set) == 0 {
				return fmt.Errorf("nothing to update, use --set column=value")
			}

			fields, err := parseAssignments(schema, set, time.Now())
			if err != nil {
				return err
			}
			owner, err := opts.app.Owner(ctx)
			if err != nil {
				return err
			}

			if _, err := opts.app.Data.Update(ctx, owner, schema.Name, args[1], fields); err != nil {
				return err
			}
			opts.printf("Updated %s %s\n", inflectSingular(schema.Name), args[1])
			if !noSync {
				opts.push(ctx)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "column=value (repeatable)")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "only queue the change, do not send it now")
	return cmd
}
