package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusResponse is what the status command reports
type statusResponse struct {
	VersionCLI    string `json:"version_cli"`
	Server        string `json:"server"`
	Authenticated bool   `json:"authenticated"`
	SessionFile   string `json:"session_file"`
	SavedAt       string `json:"saved_at,omitempty"`
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored",
	Long: `Show the configured server and whether a session is stored locally.
No call is made to the server: a stored session may still have expired.

Examples:
  monmarche status
  monmarche status -j`,
	RunE: getStatus,
}

// getStatus reports the local session state
func getStatus(cmd *cobra.Command, args []string) error {
	resp := statusResponse{
		VersionCLI:  getCLIVersion(),
		Server:      app.config.API.BaseURL,
		SessionFile: app.store.Path(),
	}
	if cred, err := app.store.Read(); err == nil {
		resp.Authenticated = true
		if !cred.SavedAt.IsZero() {
			resp.SavedAt = cred.SavedAt.Format(time.RFC3339)
		}
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), resp)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "monmarche CLI %s\n", resp.VersionCLI)
	fmt.Fprintf(out, "Server: %s\n", resp.Server)
	fmt.Fprintf(out, "Session file: %s\n", resp.SessionFile)
	if resp.Authenticated {
		okLabel.Fprint(out, "Logged in")
		if resp.SavedAt != "" {
			if t, err := time.Parse(time.RFC3339, resp.SavedAt); err == nil {
				fmt.Fprintf(out, " since %s", t.Local().Format("2006-01-02 15:04:05 MST"))
			}
		}
		fmt.Fprintln(out)
	} else {
		errorLabel.Fprintln(out, "Not logged in")
	}
	return nil
}

// init initializes the status command and adds it to the root command
func init() {
	rootCmd.AddCommand(statusCmd)
}
