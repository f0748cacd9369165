package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packetapp/packet-go/internal/match"
)

var scanGroupID int

var scanCmd = &cobra.Command{
	Use:   "scan <qr-payload>",
	Short: "Resolve a receipt QR payload into line items",
	Long: `Resolve a receipt QR payload through the backend's tax-authority lookup.
With --group, each line item is matched against the group's shopping list
so already-planned purchases can be confirmed in one step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.ScanReceipt(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Receipt %d: %s, %s, total %.2f\n",
			result.Receipt.ID, result.Data.Seller, result.Data.DateTime, result.Data.TotalSum)

		if !cmd.Flags().Changed("group") {
			for _, it := range result.Data.Items {
				fmt.Printf("  %s x%.0f\t%.2f\n", it.Name, it.Quantity, it.Sum)
			}
			return nil
		}

		listItems, err := client.GroupItems(cmd.Context(), scanGroupID)
		if err != nil {
			return err
		}
		for _, p := range match.Match(result.Data.Items, listItems) {
			if p.Matched != nil {
				fmt.Printf("  %s x%.0f\t%.2f\t-> list entry %d (%s)\n",
					p.Scanned.Name, p.Scanned.Quantity, p.Scanned.Sum, p.Matched.ID, p.Matched.ItemName)
			} else {
				fmt.Printf("  %s x%.0f\t%.2f\t(no list match)\n",
					p.Scanned.Name, p.Scanned.Quantity, p.Scanned.Sum)
			}
		}
		return nil
	},
}

var (
	confirmReceiptID int
	confirmGroupID   int
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Attach a scanned receipt's items to a list",
	Long: `Attach the items of a previously scanned receipt to a group list
(--group) or to your personal list (default). The whole batch is applied
atomically; a failure leaves nothing attached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		receipts, err := client.ReceiptHistory(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range receipts {
			if r.Receipt.ID != confirmReceiptID {
				continue
			}
			var groupID *int
			if cmd.Flags().Changed("group") {
				groupID = &confirmGroupID
			}
			if err := client.ConfirmReceiptItems(cmd.Context(), r.Receipt.ID, r.Data.Items, groupID); err != nil {
				return err
			}
			fmt.Printf("Confirmed %d items from receipt %d\n", len(r.Data.Items), r.Receipt.ID)
			return nil
		}
		return fmt.Errorf("receipt %d not found in history", confirmReceiptID)
	},
}

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "List previously scanned receipts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		receipts, err := client.ReceiptHistory(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range receipts {
			fmt.Printf("%d\t%s\t%s\ttotal %.2f\t%d items\n",
				r.Receipt.ID, r.Data.Seller, r.Data.DateTime, r.Data.TotalSum, len(r.Data.Items))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanGroupID, "group", 0, "match line items against this group's list")
	confirmCmd.Flags().IntVar(&confirmReceiptID, "receipt", 0, "receipt id from history")
	confirmCmd.Flags().IntVar(&confirmGroupID, "group", 0, "attach to this group's list instead of the personal list")
	confirmCmd.MarkFlagRequired("receipt")

	rootCmd.AddCommand(scanCmd, confirmCmd, receiptsCmd)
}
