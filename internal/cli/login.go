package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monmarche/monmarche-cli/internal/config"
	"github.com/monmarche/monmarche-cli/internal/monmarche"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Mon Marché",
		Long: `Log in to Mon Marché and store the session issued by the server.
Credentials come from the --email and --password flags, falling back to the
MON_MARCHE_EMAIL and MON_MARCHE_PASSWORD environment variables (a .env file in
the working directory is loaded first).

Example:
  monmarche login --email=me@example.com --password=secret
  monmarche login  # uses the environment`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	envEmail, envPassword := config.Credentials()
	if email == "" {
		email = envEmail
	}
	if password == "" {
		password = envPassword
	}

	status, err := app.backend.Login(cmd.Context(), monmarche.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), status)
	} else {
		okLabel.Fprintln(cmd.OutOrStdout(), "✓ Login successful")
		fmt.Fprintf(cmd.OutOrStdout(), "Session stored in: %s\n", app.store.Path())
	}
	return nil
}

// newLogoutCmd creates and returns a new logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.Clear(); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(cmd.OutOrStdout(), monmarche.Status{Status: "logged out"})
			} else {
				okLabel.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			}
			return nil
		},
	}
}
