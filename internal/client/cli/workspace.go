package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/tradetrack/internal/validation"
)

func newWorkspaceCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces (teams)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a workspace; the first one becomes current",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				if err := validation.ValidateWorkspaceName(name); err != nil {
					return err
				}
				ws, err := opts.app.CreateWorkspace(cmd.Context(), name)
				if err != nil {
					return wrapf(err, "failed to create workspace")
				}
				opts.printf("Created workspace %q (%s)\n", ws.Name, ws.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List workspaces you are a member of",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := opts.app.ListWorkspaces(cmd.Context())
				if err != nil {
					return wrapf(err, "failed to list workspaces")
				}
				current := ""
				if id, err := opts.app.Identity(cmd.Context()); err == nil {
					current = id.WorkspaceID
				}
				if len(list) == 0 {
					opts.printf("No workspaces\n")
					return nil
				}
				for _, ws := range list {
					mark := " "
					if ws.ID == current {
						mark = "*"
					}
					opts.printf("%s %s  %-20s %s\n", mark, ws.ID, ws.Name, ws.Role)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "use <id>",
			Short: "Switch the current workspace",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.UseWorkspace(cmd.Context(), args[0]); err != nil {
					return err
				}
				opts.printf("Current workspace: %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
