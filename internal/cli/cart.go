package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cartCmd represents the cart command
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "List the products in the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := app.backend.ListCart(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(cmd.OutOrStdout(), lines)
			return nil
		}
		out := cmd.OutOrStdout()
		if len(lines) == 0 {
			fmt.Fprintln(out, "Your shopping cart is empty.")
			return nil
		}
		for _, line := range lines {
			price := "-"
			if line.Price != nil {
				price = *line.Price
			}
			fmt.Fprintf(out, "%3d x %-40s %10s  %s\n", line.Quantity, line.Name, price, line.ID)
		}
		return nil
	},
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every product from the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.backend.ClearCart(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), status)
		} else {
			okLabel.Fprintf(cmd.OutOrStdout(), "✓ %s\n", status.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(clearCmd)
}
