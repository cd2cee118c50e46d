package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/drivesweep/internal/core"
	"github.com/lakshaymaurya-felt/drivesweep/internal/disk"
	"github.com/lakshaymaurya-felt/drivesweep/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show disk usage",
	Long:  "Report capacity and free space of the volume that cleaning targets. With --reclaimable the enabled categories are scanned too and their share of the volume is shown.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		path, _ := cmd.Flags().GetString("path")
		withScan, _ := cmd.Flags().GetBool("reclaimable")

		u, err := disk.Summary(cmd.Context(), path)
		if err != nil {
			return err
		}

		doc := statusOutput{Usage: u}
		if withScan {
			inv, err := scanInventory(cmd.Context(), cmd, current.catalog.Enabled(), isInteractive(cmd) && !asJSON)
			if err != nil {
				return err
			}
			size := inv.TotalSize()
			doc.Reclaimable = &size
			doc.ReclaimablePercent = core.Percent(size, int64(u.Total))
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}

		fmt.Fprintln(out, ui.TitleStyle.Render("  "+ui.IconDiamond+" Disk"))
		fmt.Fprintf(out, "  %-4s %s  %5.1f%%  %s / %s\n",
			u.Path, ui.UsageBar(u.UsedPercent, 36), u.UsedPercent,
			core.FormatSize(int64(u.Used)),
			core.FormatSize(int64(u.Total)))
		fmt.Fprintf(out, "  Free %s\n", ui.TagSuccessStyle.Render(core.FormatSize(int64(u.Free))))
		if doc.Reclaimable != nil {
			fmt.Fprintf(out, "  Reclaimable %s (%.1f%% of the volume)\n",
				ui.TagSuccessStyle.Render(core.FormatSize(*doc.Reclaimable)), doc.ReclaimablePercent)
		}
		return nil
	},
}

// statusOutput is the JSON form of status; reclaimable fields appear only
// with --reclaimable.
type statusOutput struct {
	disk.Usage
	Reclaimable        *int64  `json:"reclaimable,omitempty"`
	ReclaimablePercent float64 `json:"reclaimable_percent,omitempty"`
}

func init() {
	statusCmd.Flags().String("path", "", "Volume or directory to report (default system volume)")
	statusCmd.Flags().Bool("json", false, "Output usage as JSON")
	statusCmd.Flags().Bool("reclaimable", false, "Also scan enabled categories and show their share of the volume")
}
