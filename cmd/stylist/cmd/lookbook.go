package cmd

import (
	"context"
	"fmt"
	"strings"

	"aistylist/services"

	"github.com/spf13/cobra"
)

func newLookbookCmd(a *app) *cobra.Command {
	var ownerID uint
	var limit int
	cmd := &cobra.Command{
		Use:   "lookbook",
		Short: "List the batches composed for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			wardrobe := a.wardrobe()

			var urls services.URLCacheServiceProvider
			storage := &services.AWSService{}
			if err := storage.InitClient(ctx); err != nil {
				a.log.Warn("R2 storage disabled, no manifest links", "error", err)
			} else if urls, err = services.NewURLCacheService(storage, services.GetEnv("R2_BUCKET_NAME", "")); err != nil {
				return err
			}
			return printLookbook(ctx, cmd, wardrobe, urls, ownerID, limit)
		},
	}
	cmd.Flags().UintVar(&ownerID, "owner", 0, "user id")
	cmd.Flags().IntVar(&limit, "limit", 7, "number of batches")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func printLookbook(
	ctx context.Context,
	cmd *cobra.Command,
	wardrobe *services.WardrobeService,
	urls services.URLCacheServiceProvider,
	ownerID uint,
	limit int,
) error {
	out := cmd.OutOrStdout()
	batches, err := wardrobe.ListBatches(ctx, ownerID, limit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Fprintln(out, "No lookbooks yet.")
		return nil
	}
	for _, batch := range batches {
		fmt.Fprintf(out, "%s %-9s %-8s %s\n", batch.Day, batch.OutfitType, batch.Status, batch.Weather)
		if batch.ManifestKey != nil && urls != nil {
			link, err := urls.GetReadURL(ctx, *batch.ManifestKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  manifest: %s\n", link)
		}
		for _, outfit := range batch.Outfits {
			ids, err := outfit.ClothingIDs()
			if err != nil {
				return err
			}
			items, err := wardrobe.ItemsByIDs(ctx, ownerID, ids)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			fmt.Fprintf(out, "  %d. [%s] %s\n", outfit.Position+1, outfit.Occasion, strings.Join(names, ", "))
		}
	}
	return nil
}
