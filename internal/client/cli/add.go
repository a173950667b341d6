package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/tradetrack/internal/models"
)

func newAddCommand(opts *Options) *cobra.Command {
	var (
		set    []string
		items  []string
		noSync bool
	)

	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Add a record to the local database",
		Long: `Add a record and queue it for sync. The change is sent right away when the
server is reachable, unless --no-sync is given.

Columns are given as --set column=value. Sales and purchases need at least one
--item with comma separated column=value pairs; the document id is filled in.
Date columns accept YYYY-MM-DD or phrases like "today" or "last friday".`,
		Example: `  tradetrack add product --set name=Widget --set selling_price=9.5
  tradetrack add customer --set name="Acme Ltd" --set phone=+100200
  tradetrack add sale --set customer_id=<id> --set sale_date=today \
      --set total_amount=30 --set payment_method=cash \
      --item product_id=<id>,quantity=3,unit_price=10,total_price=30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := resolveTable(args[0])
			if err != nil {
				return err
			}
			now := time.Now()

			fields, err := parseAssignments(schema, set, now)
			if err != nil {
				return err
			}
			owner, err := opts.app.Owner(ctx)
			if err != nil {
				return err
			}

			var rec *models.LocalRecord
			if itemSchema, ok := models.ItemsTable(schema.Name); ok {
				parsed, err := parseItems(itemSchema, items, now)
				if err != nil {
					return err
				}
				rec, err = opts.app.Data.CreateWithItems(ctx, owner, schema.Name, fields, parsed)
				if err != nil {
					return err
				}
			} else {
				if len(items) > 0 {
					return fmt.Errorf("%s do not have items", schema.Name)
				}
				rec, err = opts.app.Data.Create(ctx, owner, schema.Name, fields)
				if err != nil {
					return err
				}
			}

			opts.printf("Added %s %s\n", inflectSingular(schema.Name), rec.ID)
			if !noSync {
				opts.push(ctx)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "column=value (repeatable)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "document item as column=value,column=value (repeatable)")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "only queue the change, do not send it now")
	return cmd
}
