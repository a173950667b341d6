package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// PasswordEnv - переменная окружения с паролем для неинтерактивного запуска
const PasswordEnv = "TRADETRACK_PASSWORD"

type credentialFlags struct {
	username     string
	passwordFile string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "username (prompted if empty)")
	cmd.Flags().StringVar(&f.passwordFile, "password-file", "", "read password from file")
}

// read получает username и пароль. Пароль берется по приоритету:
// 1. переменная окружения TRADETRACK_PASSWORD
// 2. файл --password-file
// 3. интерактивный ввод
func (f *credentialFlags) read(opts *Options, confirm bool) (string, string, error) {
	username := f.username
	if username == "" {
		var err error
		username, err = opts.IO.ReadInput("Username: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
	}

	if password := os.Getenv(PasswordEnv); password != "" {
		return username, password, nil
	}

	if f.passwordFile != "" {
		content, err := os.ReadFile(f.passwordFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", "", fmt.Errorf("password file is empty")
		}
		return username, password, nil
	}

	password, err := opts.IO.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	if confirm {
		again, err := opts.IO.ReadPassword("Confirm password: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return username, password, nil
}

func newRegisterCommand(opts *Options) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := creds.read(opts, true)
			if err != nil {
				return err
			}

			res, err := opts.app.Auth.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			opts.printf("Registered %s (user id %s)\n", res.Username, res.UserID)
			opts.printf("Run 'tradetrack login' to sign in\n")
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}
