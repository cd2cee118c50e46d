package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	xlog "github.com/lakshaymaurya-felt/drivesweep/internal/log"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
	"github.com/lakshaymaurya-felt/drivesweep/internal/trash"
	"github.com/lakshaymaurya-felt/drivesweep/internal/ui"
)

// newTrash builds the platform trash adapter. Tests replace it.
var newTrash = trash.Default

// isInteractive reports whether the command writes to a terminal.
func isInteractive(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runWithProgress runs work on its own goroutine and renders its events,
// either with the progress view or as plain log lines on stderr. It returns
// once work has finished.
func runWithProgress(ctx context.Context, cmd *cobra.Command, title string, interactive bool, work func(ctx context.Context, sink notify.Sink)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := notify.NewChannel(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer ch.Close()
		work(ctx, ch)
	}()

	var uiErr error
	if interactive {
		if _, err := ui.RunProgress(cmd.ErrOrStderr(), title, ch.Events(), cancel); err != nil {
			cancel()
			uiErr = fmt.Errorf("progress view: %w", err)
		}
	} else {
		for e := range ch.Events() {
			if e.Kind == notify.Log {
				fmt.Fprintln(cmd.ErrOrStderr(), e.Message)
			}
		}
	}
	<-done

	if n := ch.Dropped(); n > 0 {
		current.logger.Debug().Int64("dropped", n).Msg("progress events dropped")
	}
	return uiErr
}

// scanInventory scans cats and renders progress.
func scanInventory(ctx context.Context, cmd *cobra.Command, cats config.Catalog, interactive bool) (scan.Inventory, error) {
	var inv scan.Inventory
	err := runWithProgress(ctx, cmd, "Scanning", interactive, func(ctx context.Context, sink notify.Sink) {
		scanner := scan.New(
			scan.WithTrash(newTrash()),
			scan.WithGuard(current.guard),
			scan.WithNotifier(sink),
			scan.WithLogger(componentLogger("scan")),
		)
		inv = scanner.Scan(ctx, cats)
	})
	return inv, err
}

func componentLogger(name string) zerolog.Logger {
	return xlog.WithComponent(name).With().Str("run_id", current.runID).Logger()
}

// selection holds the category-choosing flags shared by scan and clean.
type selection struct {
	IDs     []string
	Groups  []string
	All     bool
	MaxRisk string
}

// addSelectionFlags registers --category, --group, --all and --max-risk.
func addSelectionFlags(fs *pflag.FlagSet, verb string) {
	fs.Bool("all", false, verb+" every category, including ones disabled by default")
	fs.StringSlice("category", nil, "Category id to "+strings.ToLower(verb)+" (repeatable)")
	fs.StringSlice("group", nil, "Only categories in this group: user, system, browser, dev, app (repeatable)")
	fs.String("max-risk", "", "Skip categories above this risk (low, medium, high)")
}

func selectionFromFlags(cmd *cobra.Command) selection {
	var sel selection
	sel.All, _ = cmd.Flags().GetBool("all")
	sel.IDs, _ = cmd.Flags().GetStringSlice("category")
	sel.Groups, _ = cmd.Flags().GetStringSlice("group")
	sel.MaxRisk, _ = cmd.Flags().GetString("max-risk")
	return sel
}

// selectCategories resolves a selection against the catalog. Without ids,
// groups or --all only enabled categories are used. A group picks every
// category in it, enabled or not, and narrows an explicit id list.
func selectCategories(cat config.Catalog, s selection) (config.Catalog, error) {
	var sel config.Catalog
	switch {
	case len(s.IDs) > 0:
		var unknown []string
		sel, unknown = cat.Select(s.IDs)
		if len(unknown) > 0 {
			return nil, fmt.Errorf("unknown category: %s (see 'dsweep categories')", strings.Join(unknown, ", "))
		}
	case s.All, len(s.Groups) > 0:
		sel = cat
	default:
		sel = cat.Enabled()
	}

	if len(s.Groups) > 0 {
		known := cat.Groups()
		for _, g := range s.Groups {
			if !slices.Contains(known, strings.ToLower(g)) {
				return nil, fmt.Errorf("unknown group %q: want one of %s", g, strings.Join(known, ", "))
			}
		}
		sel = sel.Group(s.Groups...)
	}

	if s.MaxRisk != "" {
		risk := config.RiskLevel(strings.ToLower(s.MaxRisk))
		if !risk.Valid() {
			return nil, fmt.Errorf("invalid --max-risk %q: want low, medium or high", s.MaxRisk)
		}
		sel = sel.MaxRisk(risk)
	}

	if len(sel) == 0 {
		return nil, fmt.Errorf("no categories selected")
	}
	return sel, nil
}
