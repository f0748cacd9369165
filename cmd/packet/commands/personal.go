package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var personalCmd = &cobra.Command{
	Use:   "personal",
	Short: "Manage your private shopping list",
}

var personalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the private list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := client.PersonalList(cmd.Context())
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("%d\t%s x%d\tadded %s\n", it.ID, it.ItemName, it.Quantity, it.AddedAt)
		}
		return nil
	},
}

var personalItemID int

var personalAddCmd = &cobra.Command{
	Use:   "add <name> <quantity> <price>",
	Short: "Add an item to the private list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		price, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[2])
		}
		var itemID *int
		if cmd.Flags().Changed("item-id") {
			itemID = &personalItemID
		}
		item, err := client.AddPersonalItem(cmd.Context(), itemID, args[0], quantity, price)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s x%d (entry %d)\n", item.ItemName, item.Quantity, item.ID)
		return nil
	},
}

var personalBoughtCmd = &cobra.Command{
	Use:   "bought <entry-id> <price>",
	Short: "Move a private list entry into purchase history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}
		price, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[1])
		}
		return client.MarkPurchased(cmd.Context(), entryID, price)
	},
}

var personalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed purchases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := client.PurchaseHistory(cmd.Context())
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("%s x%d\t%d\t%s\n", it.ItemName, it.Quantity, it.Price, it.PurchasedAt)
		}
		return nil
	},
}

func init() {
	personalAddCmd.Flags().IntVar(&personalItemID, "item-id", 0, "catalog item id, when known")
	personalCmd.AddCommand(personalListCmd, personalAddCmd, personalBoughtCmd, personalHistoryCmd)
	rootCmd.AddCommand(personalCmd)
}
