package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List your groups with latest activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := client.GroupSummaries(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range summaries {
			line := fmt.Sprintf("%d\t%s", s.GroupID, s.GroupName)
			if s.UnseenCount > 0 {
				line += fmt.Sprintf("\t(%d new)", s.UnseenCount)
			}
			if a := s.LastActivity; a != nil {
				line += fmt.Sprintf("\t%s %s: %s", a.UserName, a.Type, a.ItemName)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items <group-id>",
	Short: "Show a group's shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid group id %q", args[0])
		}
		items, err := client.GroupItems(cmd.Context(), groupID)
		if err != nil {
			return err
		}
		priorities := [...]string{"high", "medium", "low"}
		for _, it := range items {
			prio := strconv.Itoa(it.Priority)
			if it.Priority >= 0 && it.Priority < len(priorities) {
				prio = priorities[it.Priority]
			}
			line := fmt.Sprintf("%d\t%s x%d\t[%s]", it.ID, it.ItemName, it.Quantity, prio)
			if it.Budget != nil {
				line += fmt.Sprintf("\tbudget %d", *it.Budget)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var (
	addPriority int
	addBudget   int
)

var addCmd = &cobra.Command{
	Use:   "add <group-id> <item-id> <quantity>",
	Short: "Add a catalog item to a group's list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, itemID, quantity, err := threeInts(args)
		if err != nil {
			return err
		}
		var budget *int
		if cmd.Flags().Changed("budget") {
			budget = &addBudget
		}
		item, err := client.AddGroupItem(cmd.Context(), groupID, itemID, quantity, addPriority, budget)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s x%d (entry %d)\n", item.ItemName, item.Quantity, item.ID)
		return nil
	},
}

var buyQuantity int

var buyCmd = &cobra.Command{
	Use:   "buy <group-id> <item-id> <price>",
	Short: "Mark a group list item as bought",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, itemID, price, err := threeInts(args)
		if err != nil {
			return err
		}
		if err := client.BuyItem(cmd.Context(), groupID, itemID, price, buyQuantity); err != nil {
			return err
		}
		fmt.Println("Marked as bought")
		return nil
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity <group-id>",
	Short: "Show a group's activity feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid group id %q", args[0])
		}
		activities, err := client.GroupActivities(cmd.Context(), groupID)
		if err != nil {
			return err
		}
		for _, a := range activities {
			marker := " "
			if !a.IsViewed {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s %s %s x%d\n", marker, a.CreatedAt, a.UserName, a.Type, a.ItemName, a.Quantity)
		}
		return nil
	},
}

var viewedCmd = &cobra.Command{
	Use:   "viewed <group-id> [item-id...]",
	Short: "Mark group activity as seen (all of it when no item ids given)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid group id %q", args[0])
		}
		if len(args) == 1 {
			return client.MarkAllViewed(cmd.Context(), groupID)
		}
		ids := make([]int, 0, len(args)-1)
		for _, a := range args[1:] {
			id, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid item id %q", a)
			}
			ids = append(ids, id)
		}
		return client.MarkItemsViewed(cmd.Context(), groupID, ids)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join a group with an invite code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.JoinGroup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Joined %s (group %d): %s\n", result.GroupName, result.GroupID, result.Message)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the item catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := client.SearchItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("%d\t%s\t%d\n", it.ID, it.Name, it.Price)
		}
		return nil
	},
}

func threeInts(args []string) (int, int, int, error) {
	vals := make([]int, 3)
	for i, a := range args[:3] {
		v, err := strconv.Atoi(a)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid number %q", a)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

func init() {
	addCmd.Flags().IntVar(&addPriority, "priority", 1, "priority: 0=high, 1=medium, 2=low")
	addCmd.Flags().IntVar(&addBudget, "budget", 0, "budget cap in minor currency units")
	buyCmd.Flags().IntVar(&buyQuantity, "quantity", 1, "quantity bought")

	rootCmd.AddCommand(groupsCmd, itemsCmd, addCmd, buyCmd, activityCmd, viewedCmd, joinCmd, searchCmd)
}
