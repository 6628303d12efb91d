package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/monmarche/monmarche-cli/internal/config"
	"github.com/monmarche/monmarche-cli/internal/monmarche"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "monmarche [command] [flags]",
	Short: "Mon Marché CLI - search the catalog and manage your cart from the terminal",
	Long: `Mon Marché CLI logs into your Mon Marché account, searches the product
catalog and manages the shopping cart. It can also run as an MCP server so
that an agent can do the same over stdio.

Examples:
  # Log in with credentials from MON_MARCHE_EMAIL / MON_MARCHE_PASSWORD
  monmarche login

  # Search for a product
  monmarche search "pomme gala"

  # Put two units of a product in the cart
  monmarche add SKU123 --quantity 2

  # Serve the MCP tools on stdio
  monmarche serve`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stdout, os.Stderr, err)
		os.Exit(1)
	}
}

// preRunHandlePersistents loads the configuration and wires the client before
// any command that needs it.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "version" || c.Name() == "help" {
			return nil
		}
	}
	return setupApp(configFile)
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of monmarche",
		Run: func(cmd *cobra.Command, args []string) {
			configPath := configFile
			if configPath == "" {
				var err error
				configPath, err = config.GetDefaultConfigPath()
				if err != nil {
					configPath = "unknown"
				}
			}

			if jsonOutput {
				kv := map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				}
				printJSON(cmd.OutOrStdout(), kv)
			} else {
				cmd.Printf("monmarche CLI %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints the given value as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(jsonData))
}

// printError reports a failed command: the error record on stdout in JSON
// mode, a red one-liner on stderr otherwise.
func printError(stdout, stderr io.Writer, err error) {
	rec := monmarche.ToErrorRecord(err)
	if jsonOutput {
		printJSON(stdout, rec)
		return
	}
	msg := rec.Error
	if rec.Message != "" {
		msg += ": " + rec.Message
	}
	if rec.Details != "" {
		msg += " (" + rec.Details + ")"
	}
	errorLabel.Fprintf(stderr, "Error: %s\n", msg)
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v" + config.Version
}
