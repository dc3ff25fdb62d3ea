package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"aistylist/services"

	"github.com/spf13/cobra"
)

func newClosetCmd(a *app) *cobra.Command {
	closetCmd := &cobra.Command{
		Use:   "closet",
		Short: "Manage a closet folder",
	}

	var ownerID uint
	var dir string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Store every item of a closet folder in a user's wardrobe",
		Long: `Store every photo and .txt description of a folder as wardrobe items.

A photo that was imported before is skipped, so importing the same folder
twice does not create duplicates.

Examples:
  stylist closet import --owner 12 --dir ./closet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			entries, err := services.ScanClosetDir(dir)
			if err != nil {
				return err
			}
			wardrobe := a.wardrobe()
			out := cmd.OutOrStdout()
			var added, skipped int
			for _, entry := range entries {
				in := services.NewClothingIn{Name: entry.Name, Description: entry.Item.Description}
				if entry.ImagePath != "" {
					in.ImageBytes, err = os.ReadFile(entry.ImagePath)
					if err != nil {
						return fmt.Errorf("read image %s: %w", entry.ImagePath, err)
					}
				}
				item, err := wardrobe.AddItem(ctx, ownerID, in)
				if errors.Is(err, services.ErrDuplicateItem) {
					skipped++
					fmt.Fprintf(out, "skip  %s (already imported)\n", entry.Name)
					continue
				}
				if err != nil {
					return err
				}
				added++
				fmt.Fprintf(out, "add   %-4d %-20s %s\n", item.ID, entry.Name, item.ClothingType)
			}
			a.log.Info("closet imported", "owner", ownerID, "dir", dir, "added", added, "skipped", skipped)
			fmt.Fprintf(out, "%d added, %d skipped\n", added, skipped)
			return nil
		},
	}
	importCmd.Flags().UintVar(&ownerID, "owner", 0, "user id")
	importCmd.Flags().StringVar(&dir, "dir", "", "folder of photos and .txt descriptions")
	_ = importCmd.MarkFlagRequired("owner")
	_ = importCmd.MarkFlagRequired("dir")

	closetCmd.AddCommand(importCmd)
	return closetCmd
}
