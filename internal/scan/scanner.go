// Package scan builds per-category inventories of disposable files.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/trash"
	"github.com/lakshaymaurya-felt/drivesweep/internal/whitelist"
)

// DoneLabel is the category name of the final 100% progress event.
const DoneLabel = "done"

// errAccessDenied is recorded on a category whose root cannot be listed.
const errAccessDenied = "access denied (administrator rights may be required)"

// Scanner walks category roots. It holds no per-run state, but a single
// Scanner must not run overlapping scans that feed the same Cleaner.
type Scanner struct {
	trash  trash.Adapter
	sink   notify.Sink
	guard  *whitelist.Whitelist
	logger zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTrash sets the adapter queried for trash categories.
func WithTrash(a trash.Adapter) Option {
	return func(s *Scanner) { s.trash = a }
}

// WithNotifier sets the progress sink.
func WithNotifier(sink notify.Sink) Option {
	return func(s *Scanner) { s.sink = notify.OrDiscard(sink) }
}

// WithGuard skips protected paths.
func WithGuard(wl *whitelist.Whitelist) Option {
	return func(s *Scanner) { s.guard = wl }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		sink:   notify.Discard,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan inventories every category in order. When ctx is cancelled the
// category in flight is returned with Partial set and later categories are
// absent from the inventory.
func (s *Scanner) Scan(ctx context.Context, cats []config.Category) Inventory {
	inv := make(Inventory, len(cats))
	total := len(cats)

	for i, cat := range cats {
		if ctx.Err() != nil {
			break
		}

		s.sink.Publish(notify.Event{
			Kind:     notify.ScanProgress,
			Category: cat.Name,
			Percent:  i * 100 / total,
		})

		var r *Result
		if cat.IsTrash() {
			r = s.scanTrash(ctx, cat)
		} else {
			r = s.scanCategory(ctx, cat)
		}
		inv[cat.ID] = r

		s.logger.Debug().
			Str("category", cat.ID).
			Int("files", r.FileCount).
			Int64("bytes", r.TotalSize).
			Str("error", r.Error).
			Bool("partial", r.Partial).
			Msg("category scanned")
	}

	if ctx.Err() == nil {
		s.sink.Publish(notify.Event{Kind: notify.ScanProgress, Category: DoneLabel, Percent: 100})
	}
	return inv
}

func (s *Scanner) scanTrash(ctx context.Context, cat config.Category) *Result {
	r := newResult(cat)
	if s.trash == nil {
		r.Error = trash.ErrUnavailable.Error()
		return r
	}

	info, err := s.trash.Query(ctx)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.TotalSize = info.Size
	r.FileCount = int(info.Items)
	return r
}

func (s *Scanner) scanCategory(ctx context.Context, cat config.Category) *Result {
	r := newResult(cat)
	f := newFilter(cat)

	for _, root := range cat.Paths {
		if ctx.Err() != nil {
			r.Partial = true
			break
		}
		if s.guard.Excludes(root) {
			s.logger.Debug().Str("root", root).Msg("skipping protected root")
			continue
		}

		// Roots are followed if they are symlinks, entries below are not.
		info, err := os.Stat(root)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.Error = describe(err)
			}
			continue
		}
		r.Roots = append(r.Roots, root)

		if !info.IsDir() {
			// A root may name a single file, e.g. a crash dump.
			if info.Mode().IsRegular() && f.matchFile(root, f.pattern) {
				r.add(root, info.Size())
			}
			continue
		}

		err = s.walk(ctx, root, f.pattern, f, r)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			r.Partial = true
			return r
		case err != nil:
			r.Error = describe(err)
		}
	}
	return r
}

// walk enumerates dir. pattern is the still-required substring, empty once a
// matching ancestor directory has activated the subtree. It returns the
// directory's own read error or a context error; nested read errors are
// swallowed.
func (s *Scanner) walk(ctx context.Context, dir, pattern string, f filter, r *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())
		if s.guard.Excludes(path) {
			continue
		}

		switch {
		case e.Type().IsRegular():
			if !f.matchFile(path, pattern) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			r.add(path, info.Size())

		case e.IsDir():
			next := pattern
			if pattern != "" && containsFold(path, pattern) {
				next = ""
			}
			if err := s.walk(ctx, path, next, f, r); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Trace().Err(err).Str("dir", path).Msg("skipping unreadable directory")
			}
		}
	}
	return nil
}

func newResult(cat config.Category) *Result {
	return &Result{
		ID:      cat.ID,
		Name:    cat.Name,
		Special: cat.Special,
	}
}

func describe(err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return errAccessDenied
	}
	return err.Error()
}

// filter holds a category's normalized match rules.
type filter struct {
	extensions map[string]bool
	pattern    string
}

func newFilter(cat config.Category) filter {
	f := filter{pattern: strings.ToLower(cat.Pattern)}
	if len(cat.Extensions) > 0 {
		f.extensions = make(map[string]bool, len(cat.Extensions))
		for _, ext := range cat.Extensions {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			f.extensions[ext] = true
		}
	}
	return f
}

// matchFile applies the extension allow-list and, when pattern is still
// required, the substring rule against the full path. Extension filtering
// is independent of pattern activation.
func (f filter) matchFile(path, pattern string) bool {
	if f.extensions != nil && !f.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if pattern != "" && !containsFold(path, pattern) {
		return false
	}
	return true
}

// containsFold reports whether path contains the lower-cased needle.
func containsFold(path, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(path), lowerNeedle)
}
