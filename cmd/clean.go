package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/drivesweep/internal/clean"
	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/core"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/ui"
)

// errCleanFailures is returned with --fail-on-error when anything failed.
var errCleanFailures = errors.New("some entries could not be removed")

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long:  "Scan the selected categories, confirm, then delete what was found and prune directories left empty.",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "Preview the cleanup without deleting")
	addSelectionFlags(cleanCmd.Flags(), "Clean")
	cleanCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	cleanCmd.Flags().String("report", "", "Write a JSON report to this file")
	cleanCmd.Flags().Bool("fail-on-error", false, "Exit non-zero when any entry could not be removed")
}

// cleanReport is the JSON document written by --report.
type cleanReport struct {
	RunID      string          `json:"run_id"`
	DryRun     bool            `json:"dry_run"`
	Started    time.Time       `json:"started"`
	Finished   time.Time       `json:"finished"`
	Freed      int64           `json:"freed"`
	Removed    int             `json:"removed"`
	Failed     int             `json:"failed"`
	Categories []*clean.Result `json:"categories"`
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	reportPath, _ := cmd.Flags().GetString("report")
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")

	cats, err := selectCategories(current.catalog, selectionFromFlags(cmd))
	if err != nil {
		return err
	}
	for _, cat := range cats {
		if cat.RequiresAdmin {
			current.logger.Warn().Str("category", cat.ID).Msg("category may need administrator rights")
		}
	}

	ctx := cmd.Context()
	interactive := isInteractive(cmd)
	started := time.Now()

	inv, err := scanInventory(ctx, cmd, cats, interactive)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "scan cancelled; nothing was deleted")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.InventoryTable(cats, inv))

	selected := cats.IDs()
	if inv.SelectedCount(selected) == 0 && !hasTrash(cats) {
		fmt.Fprintln(out, "\nNothing to clean.")
		return nil
	}

	if !dryRun && !yes {
		if !interactive {
			return fmt.Errorf("refusing to delete without --yes when not attached to a terminal")
		}
		ok, err := confirm(cmd.InOrStdin(), out,
			fmt.Sprintf("\nDelete %s from %d categories?", core.FormatSize(inv.SelectedSize(selected)), len(selected)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var report clean.Report
	title := "Cleaning"
	if dryRun {
		title = "Dry run"
	}
	err = runWithProgress(ctx, cmd, title, interactive, func(ctx context.Context, sink notify.Sink) {
		cleaner := clean.New(
			clean.WithTrash(newTrash()),
			clean.WithGuard(current.guard),
			clean.WithNotifier(sink),
			clean.WithLogger(componentLogger("clean")),
			clean.WithDryRun(dryRun),
		)
		report = cleaner.Clean(ctx, inv, selected)
	})
	if err != nil {
		return err
	}

	fmt.Fprint(out, "\n"+ui.CleanSummary(selected, report, dryRun))

	current.logger.Info().
		Int64("freed", report.TotalFreed()).
		Int("removed", report.TotalRemoved()).
		Int("failed", report.TotalFailed()).
		Bool("dry_run", dryRun).
		Dur("elapsed", time.Since(started)).
		Msg("clean finished")

	if reportPath != "" {
		doc := cleanReport{
			RunID:    current.runID,
			DryRun:   dryRun,
			Started:  started,
			Finished: time.Now(),
			Freed:    report.TotalFreed(),
			Removed:  report.TotalRemoved(),
			Failed:   report.TotalFailed(),
		}
		for _, id := range selected {
			if r, ok := report[id]; ok {
				doc.Categories = append(doc.Categories, r)
			}
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := writeReport(reportPath, append(data, '\n')); err != nil {
			return err
		}
	}

	if failOnError && report.TotalFailed() > 0 {
		return errCleanFailures
	}
	return nil
}

func hasTrash(cats config.Catalog) bool {
	for _, cat := range cats {
		if cat.IsTrash() {
			return true
		}
	}
	return false
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
