package cmd

import (
	"context"
	"fmt"
	"strings"

	"aistylist/services"

	"github.com/spf13/cobra"
)

func newCollectionCmd(a *app) *cobra.Command {
	var ownerID uint
	collectionCmd := &cobra.Command{
		Use:   "collection",
		Short: "Save and list favourite outfits",
		Long: `Collections are outfits a user chose to keep. When the worker composes an
outfit naming the same garments as a collection with an image, the outfit
reuses that image.

Examples:
  stylist collection save --owner 12 --name "Friday" --occasion Casual 3 7 9
  stylist collection list --owner 12`,
	}
	collectionCmd.PersistentFlags().UintVar(&ownerID, "owner", 0, "user id")
	_ = collectionCmd.MarkPersistentFlagRequired("owner")

	var name, occasion, image string
	saveCmd := &cobra.Command{
		Use:   "save <item-id>...",
		Short: "Save items as a collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := services.ParseItemIDs(args)
			if err != nil {
				return err
			}
			collection, err := a.wardrobe().SaveCollection(context.Background(), ownerID, name, occasion, ids, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d %s (%s)\n", collection.ID, collection.Name, collection.OutfitKey[:8])
			return nil
		},
	}
	saveCmd.Flags().StringVar(&name, "name", "", "collection name")
	saveCmd.Flags().StringVar(&occasion, "occasion", "Casual", "occasion")
	saveCmd.Flags().StringVar(&image, "image", "", "image of the outfit, reused by similar outfits")
	_ = saveCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections, err := a.wardrobe().ListCollections(context.Background(), ownerID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(collections) == 0 {
				fmt.Fprintln(out, "No collections yet.")
				return nil
			}
			for _, c := range collections {
				ids, err := c.ClothingIDs()
				if err != nil {
					return err
				}
				parts := make([]string, 0, len(ids))
				for _, id := range ids {
					parts = append(parts, services.FormatItemID(id))
				}
				fmt.Fprintf(out, "%-4d %-16s %-12s [%s] %s\n", c.ID, c.Name, c.Occasion, strings.Join(parts, " "), c.Description)
			}
			return nil
		},
	}

	collectionCmd.AddCommand(saveCmd, listCmd)
	return collectionCmd
}
