package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"aistylist/models"
	"aistylist/services"
	"aistylist/styling"
	"aistylist/tasks"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

type composeOptions struct {
	Closet  string
	OwnerID uint
	Count   int    `validate:"min=0,max=12"`
	Weather string `validate:"weather_label"`
	Seed    int64
	JSON    bool
	Queue   bool
}

type composedOutfit struct {
	Items     []string `json:"items"`
	OutfitKey string   `json:"outfit_key"`
}

func newComposeCmd(a *app) *cobra.Command {
	opts := composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a batch of outfits",
		Long: `Compose disjoint outfits from a wardrobe.

Examples:
  stylist compose --closet ./closet --count 3 --weather cold
  stylist compose --owner 12 --count 4 --seed 42 --json
  stylist compose --owner 12 --queue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.Closet == "") == (opts.OwnerID == 0) {
				return errors.New("exactly one of --closet or --owner is required")
			}
			if opts.Queue && opts.OwnerID == 0 {
				return errors.New("--queue needs --owner")
			}
			if err := a.validate.Struct(opts); err != nil {
				return err
			}
			ctx := context.Background()
			if opts.Queue {
				return enqueueCompose(ctx, cmd.OutOrStdout(), opts)
			}

			var items []styling.WardrobeItem
			var err error
			if opts.Closet != "" {
				items, err = services.LoadClosetDir(opts.Closet)
			} else {
				items, err = a.wardrobe().Snapshot(ctx, opts.OwnerID)
			}
			if err != nil {
				return err
			}

			req := styling.Request{Items: items, Count: opts.Count, Weather: opts.Weather}
			if cmd.Flags().Changed("seed") {
				req.Seed = &opts.Seed
			}
			outfits, err := a.composer.Compose(req)
			if err != nil {
				return err
			}
			a.log.Debug("composed", "items", len(items), "outfits", len(outfits), "weather", opts.Weather)
			return printOutfits(cmd.OutOrStdout(), outfits, items, opts.JSON)
		},
	}
	cmd.Flags().StringVar(&opts.Closet, "closet", "", "folder of photos and .txt descriptions")
	cmd.Flags().UintVar(&opts.OwnerID, "owner", 0, "compose from a stored wardrobe")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 3, "number of outfits")
	cmd.Flags().StringVarP(&opts.Weather, "weather", "w", "", "weather label: warm, cold, rainy...")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for a reproducible batch")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&opts.Queue, "queue", false, "enqueue an on-demand batch for the worker instead")
	return cmd
}

func enqueueCompose(ctx context.Context, out io.Writer, opts composeOptions) error {
	task, err := tasks.NewComposeOutfitsTask(opts.OwnerID, opts.Count, opts.Weather, models.OutfitTypeOnDemand)
	if err != nil {
		return err
	}
	client := tasks.NewClient()
	defer client.Close()
	info, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Queue(tasks.QueueOutfits))
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	fmt.Fprintf(out, "queued %s (%s)\n", info.ID, info.Queue)
	return nil
}

func printOutfits(out io.Writer, outfits []styling.OutfitCandidate, items []styling.WardrobeItem, asJSON bool) error {
	if asJSON {
		result := make([]composedOutfit, 0, len(outfits))
		for _, outfit := range outfits {
			result = append(result, composedOutfit{Items: outfit, OutfitKey: styling.OutfitKey(outfit)})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(outfits) == 0 {
		fmt.Fprintln(out, "No outfits could be composed.")
		return nil
	}
	descriptions := make(map[string]string, len(items))
	for _, item := range items {
		descriptions[item.ID] = item.Description
	}
	for i, outfit := range outfits {
		fmt.Fprintf(out, "Outfit %d (%s)\n", i+1, styling.OutfitKey(outfit)[:8])
		for _, id := range outfit {
			fmt.Fprintf(out, "  %-20s %s\n", id, strings.TrimSpace(descriptions[id]))
		}
	}
	return nil
}
