package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
	"github.com/lakshaymaurya-felt/drivesweep/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Measure reclaimable space",
	Long:  "Walk every selected category and report how much space cleaning would free. Nothing is deleted.",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Bool("json", false, "Output results as JSON")
	scanCmd.Flags().Bool("files", false, "Include the file list in JSON output")
	addSelectionFlags(scanCmd.Flags(), "Scan")
}

// scanEntry is the JSON form of one category's scan result.
type scanEntry struct {
	*scan.Result
	Risk config.RiskLevel `json:"risk"`
}

type scanOutput struct {
	RunID      string      `json:"run_id"`
	TotalSize  int64       `json:"total_size"`
	Categories []scanEntry `json:"categories"`
}

func runScan(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	withFiles, _ := cmd.Flags().GetBool("files")

	cats, err := selectCategories(current.catalog, selectionFromFlags(cmd))
	if err != nil {
		return err
	}

	inv, err := scanInventory(cmd.Context(), cmd, cats, isInteractive(cmd) && !asJSON)
	if err != nil {
		return err
	}
	if cmd.Context().Err() != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "scan cancelled; results are partial")
	}

	if !asJSON {
		fmt.Fprint(cmd.OutOrStdout(), ui.InventoryTable(cats, inv))
		return nil
	}

	out := scanOutput{RunID: current.runID, TotalSize: inv.TotalSize()}
	for _, cat := range cats {
		r, ok := inv[cat.ID]
		if !ok {
			continue
		}
		if !withFiles {
			trimmed := *r
			trimmed.Files = nil
			r = &trimmed
		}
		out.Categories = append(out.Categories, scanEntry{Result: r, Risk: cat.Risk})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
