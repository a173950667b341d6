package cli

import (
	"github.com/spf13/cobra"
)

func newLogoutCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove local data of the current workspace",
		Long: `Sign out of the server and remove the local copy of the current workspace.

Changes that were not sent to the server yet are discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.SignOut(cmd.Context()); err != nil {
				return err
			}
			opts.printf("Logged out\n")
			return nil
		},
	}
}
