package cli

import (
	"github.com/spf13/cobra"
)

func newLoginCommand(opts *Options) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := creds.read(opts, false)
			if err != nil {
				return err
			}

			session, err := opts.app.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			opts.printf("Logged in as %s\n", session.Username)
			if session.WorkspaceID == "" {
				opts.printf("No workspace selected. Create one with 'tradetrack workspace create <name>'\n")
			} else {
				opts.printf("Workspace: %s\n", session.WorkspaceID)
			}
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}
