package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe <description>",
		Short: "Show the attributes read from an item description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			extractor := a.composer.Extractor()
			attrs := extractor.Extract(description)
			colors := extractor.Colors(description)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(map[string]any{
					"category": attrs.Category,
					"color":    attrs.Color,
					"material": attrs.Material,
					"style":    attrs.Style,
					"colors":   colors,
				})
			}
			fmt.Fprintf(out, "Category: %s\n", attrs.Category)
			fmt.Fprintf(out, "Color:    %s\n", attrs.Color)
			fmt.Fprintf(out, "Material: %s\n", attrs.Material)
			fmt.Fprintf(out, "Style:    %s\n", attrs.Style)
			fmt.Fprintf(out, "Palette:  %s\n", strings.Join(colors, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
