package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"aistylist/models"

	"github.com/spf13/cobra"
)

func newItemCmd(a *app) *cobra.Command {
	var ownerID uint
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "List, describe or delete wardrobe items",
		Long: `Work on single items of a user's wardrobe.

Examples:
  stylist item list --owner 12
  stylist item describe 31 "navy wool sweater" --owner 12
  stylist item describe 31 --file sweater.txt --owner 12
  stylist item delete 31 --owner 12`,
	}
	itemCmd.PersistentFlags().UintVar(&ownerID, "owner", 0, "user id")
	_ = itemCmd.MarkPersistentFlagRequired("owner")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the items of a wardrobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.wardrobe().ListItems(context.Background(), ownerID)
			if err != nil {
				return err
			}
			for _, item := range items {
				printItem(cmd, &item)
			}
			return nil
		},
	}

	var file string
	describeCmd := &cobra.Command{
		Use:   "describe <item-id> [description]",
		Short: "Set an item's description and refresh its attributes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			wardrobe := a.wardrobe()
			description := strings.Join(args[1:], " ")
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					// counts towards the item's failed attempts
					if _, markErr := wardrobe.MarkDescribeFailed(ctx, ownerID, id, err); markErr != nil {
						return markErr
					}
					return fmt.Errorf("read description: %w", err)
				}
				description = string(raw)
			}
			item, err := wardrobe.DescribeItem(ctx, ownerID, id, description)
			if err != nil {
				return err
			}
			printItem(cmd, item)
			return nil
		},
	}
	describeCmd.Flags().StringVar(&file, "file", "", "read the description from a file")

	deleteCmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Remove an item from the wardrobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.wardrobe().DeleteItem(context.Background(), ownerID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	}

	itemCmd.AddCommand(listCmd, describeCmd, deleteCmd)
	return itemCmd
}

func parseID(arg string) (uint, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("item id %q: %w", arg, err)
	}
	return uint(v), nil
}

func printItem(cmd *cobra.Command, item *models.Clothing) {
	description := ""
	if item.Description != nil {
		description = *item.Description
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-11s %-10s %-8s %-9s %s\n",
		item.ID, item.ClothingType, item.ProcessingStatus, item.Color, item.Material, description)
}
