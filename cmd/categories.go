package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/ui"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [id]",
	Short: "List cleanup categories",
	Long:  "Show every category in the active catalog, or just the one named, with its group, risk tier and target paths.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		cats := current.catalog
		if len(args) == 1 {
			cat, ok := cats.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown category: %s (see 'dsweep categories')", args[0])
			}
			cats = config.Catalog{cat}
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cats)
		}

		idCol := lipgloss.NewStyle().Width(24)
		groupCol := lipgloss.NewStyle().Width(8)
		for _, cat := range cats {
			mark := ui.DimStyle.Render(" ")
			if cat.Enabled {
				mark = ui.TagSuccessStyle.Render(ui.IconCheck)
			}
			fmt.Fprintf(out, "  %s %s %s %s %s\n",
				mark,
				idCol.Render(cat.ID),
				ui.DimStyle.Inherit(groupCol).Render(cat.Group),
				ui.RiskStyle(string(cat.Risk)).Render(fmt.Sprintf("%-6s", cat.Risk)),
				ui.TextStyle.Render(cat.Name),
			)
			if cat.Description != "" {
				fmt.Fprintln(out, ui.DimStyle.Render("      "+cat.Description))
			}
			for _, p := range cat.Paths {
				fmt.Fprintln(out, ui.DimStyle.Render("      "+ui.IconPipe+" "+p))
			}
			if len(cat.Extensions) > 0 {
				fmt.Fprintln(out, ui.DimStyle.Render("      only: "+strings.Join(cat.Extensions, " ")))
			}
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.HintBarStyle.Render("  "+ui.IconCheck+" enabled by default; use --all, --group or --category to include others"))
		return nil
	},
}

func init() {
	categoriesCmd.Flags().Bool("json", false, "Output the catalog as JSON")
}
