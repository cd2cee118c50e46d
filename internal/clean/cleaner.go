// Package clean removes the entries inventoried by a scan.
package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/core"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
	"github.com/lakshaymaurya-felt/drivesweep/internal/trash"
	"github.com/lakshaymaurya-felt/drivesweep/internal/whitelist"
)

// progressSteps caps progress events per category.
const progressSteps = 100

// Cleaner deletes inventoried files. It keeps no state between runs, so
// results never accumulate across Clean calls.
type Cleaner struct {
	trash  trash.Adapter
	sink   notify.Sink
	guard  *whitelist.Whitelist
	logger zerolog.Logger
	dryRun bool

	logRemoved int
	logFailed  int
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithTrash sets the adapter used to empty trash categories.
func WithTrash(a trash.Adapter) Option {
	return func(c *Cleaner) { c.trash = a }
}

// WithNotifier sets the sink for progress and log-line events.
func WithNotifier(sink notify.Sink) Option {
	return func(c *Cleaner) { c.sink = notify.OrDiscard(sink) }
}

// WithGuard refuses to delete protected paths.
func WithGuard(wl *whitelist.Whitelist) Option {
	return func(c *Cleaner) { c.guard = wl }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cleaner) { c.logger = l }
}

// WithDryRun counts what would be removed without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(c *Cleaner) { c.dryRun = dryRun }
}

// WithLogLimit sets how many removals and how many failures of each kind
// are echoed to the sink per category.
func WithLogLimit(removed, failed int) Option {
	return func(c *Cleaner) {
		c.logRemoved = removed
		c.logFailed = failed
	}
}

// New creates a Cleaner.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		sink:       notify.Discard,
		logger:     zerolog.Nop(),
		logRemoved: 3,
		logFailed:  2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean processes the selected categories in the given order. Unknown and
// repeated ids are ignored. Categories not started before ctx is cancelled
// are absent from the report.
func (c *Cleaner) Clean(ctx context.Context, inv scan.Inventory, selected []string) Report {
	ids := dedupe(selected, inv)

	total := 0
	for _, id := range ids {
		if r := inv[id]; r.Special != config.SpecialTrash {
			total += len(r.Files)
		}
	}

	// Every configured root in the inventory bounds pruning, including
	// roots of categories that are not being cleaned.
	var keep []string
	for _, r := range inv {
		if r != nil {
			keep = append(keep, r.Roots...)
		}
	}

	report := make(Report, len(ids))
	processed := 0

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		sr := inv[id]
		if sr.Special == config.SpecialTrash {
			report[id] = c.emptyTrash(ctx, sr)
			continue
		}

		base := processed
		report[id] = c.cleanFiles(ctx, sr, keep, func(done int) {
			c.sink.Publish(notify.Event{
				Kind:      notify.CleanProgress,
				Category:  sr.Name,
				Processed: base + done,
				Total:     total,
			})
		})
		processed += len(sr.Files)
	}

	return report
}

func (c *Cleaner) cleanFiles(ctx context.Context, sr *scan.Result, keep []string, progress func(done int)) *Result {
	r := &Result{ID: sr.ID, Name: sr.Name}
	n := len(sr.Files)
	interval := max(1, n/progressSteps)

	c.logf("cleaning %s: %d files", sr.Name, n)

	var logged struct{ removed, denied, failed int }

	for i, path := range sr.Files {
		if ctx.Err() != nil {
			r.Partial = true
			break
		}

		switch freed, err := c.remove(path); {
		case err == nil:
			r.Removed++
			r.Freed += freed
			if logged.removed < c.logRemoved {
				logged.removed++
				c.logf("  removed: %s", filepath.Base(path))
			}

		case errors.Is(err, errSkip):
			r.Skipped++

		case isDenied(err):
			r.Failed++
			r.Denied++
			r.recordError(err.Error())
			if logged.denied < c.logFailed {
				logged.denied++
				c.logf("  denied (in use or protected by permissions): %s", filepath.Base(path))
			}

		default:
			r.Failed++
			r.recordError(err.Error())
			if logged.failed < c.logFailed {
				logged.failed++
				c.logf("  failed: %s", filepath.Base(path))
			}
		}

		if i%interval == 0 || i == n-1 {
			progress(i + 1)
		}
	}

	c.logf("done %s: removed %d, failed %d, freed %s",
		sr.Name, r.Removed, r.Failed, core.FormatSize(r.Freed))

	c.logger.Info().
		Str("category", sr.ID).
		Int("removed", r.Removed).
		Int("failed", r.Failed).
		Int("denied", r.Denied).
		Int("skipped", r.Skipped).
		Int64("freed", r.Freed).
		Bool("dry_run", c.dryRun).
		Msg("category cleaned")

	if !r.Partial && !c.dryRun {
		c.pruneEmptyDirs(sr, keep)
	}
	return r
}

// errSkip marks paths that are accounted as skipped rather than failed.
var errSkip = errors.New("skipped")

// remove deletes one inventoried path and returns the bytes it occupied.
func (c *Cleaner) remove(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, errSkip
		}
		return 0, err
	}

	if c.guard.IsWhitelisted(path) {
		c.logger.Warn().Str("path", path).Msg("refusing to delete protected path")
		return 0, errSkip
	}

	if info.IsDir() {
		size := dirSize(path)
		if c.dryRun {
			return size, nil
		}
		if err := os.RemoveAll(path); err != nil {
			return 0, err
		}
		return size, nil
	}

	if c.dryRun {
		return info.Size(), nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, errSkip
		}
		return 0, err
	}
	return info.Size(), nil
}

func (c *Cleaner) emptyTrash(ctx context.Context, sr *scan.Result) *Result {
	r := &Result{ID: sr.ID, Name: sr.Name}

	if c.trash == nil {
		r.Failed = 1
		r.recordError(trash.ErrUnavailable.Error())
		return r
	}

	if c.dryRun {
		r.Removed = 1
		c.logf("would empty %s (%d items)", sr.Name, sr.FileCount)
		return r
	}

	out := c.trash.Empty(ctx)
	switch out.Status {
	case trash.StatusOK:
		r.Removed = 1
		c.logf("emptied %s", sr.Name)
	case trash.StatusAlreadyEmpty:
		r.Removed = 1
		c.logf("%s already empty", sr.Name)
	default:
		r.Failed = 1
		r.recordError(out.String())
		c.logf("  failed: %s", out.String())
	}

	c.logger.Info().
		Str("category", sr.ID).
		Str("status", out.Status.String()).
		Uint32("code", out.Code).
		Msg("trash emptied")
	return r
}

func (c *Cleaner) logf(format string, args ...any) {
	c.sink.Publish(notify.Event{Kind: notify.Log, Message: fmt.Sprintf(format, args...)})
}

// dedupe keeps the first occurrence of every id present in inv.
func dedupe(ids []string, inv scan.Inventory) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := inv[id]; ok && r != nil {
			out = append(out, id)
		}
	}
	return out
}

// dirSize sums regular files below path, ignoring entries it cannot stat.
func dirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
