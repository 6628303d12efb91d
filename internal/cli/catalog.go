package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the product catalog",
	Long: `Search the Mon Marché catalog. Every result is enriched with its
description, prices, weight and a link to the product page.

Examples:
  monmarche search pomme
  monmarche search "beurre doux" -j`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	items, err := app.backend.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), items)
		return nil
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "No products found matching %q.\n", query)
		return nil
	}
	for _, item := range items {
		if item.Error != "" {
			errorLabel.Fprintf(out, "%s: %s\n", item.ID, item.Error)
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", item.ID, item.Name)
		if item.PricePerPiece != nil {
			fmt.Fprintf(out, "    Price: %s\n", *item.PricePerPiece)
		}
		if item.PricePerWeight != nil {
			fmt.Fprintf(out, "    Price per weight: %s\n", *item.PricePerWeight)
		}
		if item.Weight != nil {
			fmt.Fprintf(out, "    Weight: %s\n", *item.Weight)
		}
		fmt.Fprintf(out, "    %s\n", item.Link)
	}
	return nil
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Long: `Set the quantity of a product in the cart. Product ids are the ids
printed by the search command.

Examples:
  monmarche add SKU123
  monmarche add SKU123 --quantity 3`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	quantity, _ := cmd.Flags().GetInt("quantity")
	ack, err := app.backend.AddItem(cmd.Context(), args[0], quantity)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), json.RawMessage(ack))
		return nil
	}
	okLabel.Fprintf(cmd.OutOrStdout(), "✓ Added %d x %s to the cart\n", quantity, args[0])
	return nil
}

func init() {
	addCmd.Flags().IntP("quantity", "q", 1, "Quantity to put in the cart")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
}
