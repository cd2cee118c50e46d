// Package whitelist guards paths that must never be scanned or deleted.
package whitelist

import (
	"path/filepath"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
)

// Whitelist holds protected paths. A nil *Whitelist protects nothing.
type Whitelist struct {
	patterns []string        // wildcard globs, normalized
	subtrees []string        // plain directories protecting their contents
	exact    map[string]bool // never-delete paths, the path itself only
}

// New builds a whitelist from user patterns. Entries containing '*' or '?'
// are wildcard globs; anything else protects the path and everything below.
func New(patterns []string) *Whitelist {
	wl := &Whitelist{exact: make(map[string]bool)}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.ContainsAny(p, "*?") {
			wl.patterns = append(wl.patterns, normalize(p))
			continue
		}
		wl.subtrees = append(wl.subtrees, strings.TrimSuffix(normalize(filepath.Clean(p)), "/"))
	}
	return wl
}

// WithNeverDelete adds the platform's never-delete paths as exact entries and
// returns wl for chaining.
func (wl *Whitelist) WithNeverDelete() *Whitelist {
	return wl.WithExact(config.NeverDeletePaths()...)
}

// WithExact protects exactly the given paths, not their children.
func (wl *Whitelist) WithExact(paths ...string) *Whitelist {
	for _, p := range paths {
		if p == "" {
			continue
		}
		wl.exact[key(p)] = true
	}
	return wl
}

// IsWhitelisted reports whether path must not be deleted.
func (wl *Whitelist) IsWhitelisted(path string) bool {
	if wl == nil || path == "" {
		return false
	}
	if wl.exact[key(path)] {
		return true
	}
	return wl.Excludes(path)
}

// Excludes reports whether path is covered by a user pattern or protected
// subtree. Exact never-delete entries do not exclude: their contents may
// still be inventoried.
func (wl *Whitelist) Excludes(path string) bool {
	if wl == nil || path == "" {
		return false
	}

	k := key(path)
	for _, dir := range wl.subtrees {
		if k == dir || strings.HasPrefix(k, dir+"/") {
			return true
		}
	}

	for _, pattern := range wl.patterns {
		if wildcard.Match(pattern, k) {
			return true
		}
	}
	return false
}

// Len returns the number of configured entries.
func (wl *Whitelist) Len() int {
	if wl == nil {
		return 0
	}
	return len(wl.patterns) + len(wl.subtrees) + len(wl.exact)
}

func key(path string) string {
	k := normalize(filepath.Clean(path))
	if len(k) > 1 {
		k = strings.TrimSuffix(k, "/")
	}
	return k
}

// normalize lower-cases and converts separators so patterns written with
// either slash match on every platform.
func normalize(p string) string {
	return strings.ToLower(strings.ReplaceAll(filepath.ToSlash(p), `\`, "/"))
}
