package clean

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
)

// pruneEmptyDirs removes directories left empty by the clean, deepest
// first. Only ancestors strictly below one of the category's roots are
// candidates, and no directory in keep is removed, so the configured roots
// of other categories survive. Failures are ignored.
func (c *Cleaner) pruneEmptyDirs(sr *scan.Result, keep []string) {
	dirs := emptyDirCandidates(sr.Files, sr.Roots, keep)

	var pruned int
	for _, dir := range dirs {
		if c.guard.IsWhitelisted(dir) {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			pruned++
		}
	}

	if pruned > 0 {
		c.logger.Debug().Str("category", sr.ID).Int("dirs", pruned).Msg("pruned empty directories")
	}
}

// emptyDirCandidates collects every distinct ancestor of files that lies
// strictly inside a root and is not listed in keep, sorted by path length
// descending.
func emptyDirCandidates(files, roots, keep []string) []string {
	cleanRoots := make([]string, 0, len(roots))
	for _, r := range roots {
		cleanRoots = append(cleanRoots, filepath.Clean(r))
	}
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[filepath.Clean(k)] = true
	}

	seen := make(map[string]bool)
	for _, f := range files {
		root, ok := enclosingRoot(f, cleanRoots)
		if !ok {
			continue
		}

		parent := filepath.Dir(f)
		for parent != root && isInside(parent, root) {
			if seen[parent] {
				// Everything above was collected by an earlier file.
				break
			}
			seen[parent] = true

			next := filepath.Dir(parent)
			if next == parent {
				break
			}
			parent = next
		}
	}

	dirs := make([]string, 0, len(seen))
	for d := range seen {
		if !kept[d] {
			dirs = append(dirs, d)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		if len(dirs[i]) != len(dirs[j]) {
			return len(dirs[i]) > len(dirs[j])
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}

// enclosingRoot returns the deepest root that contains path.
func enclosingRoot(path string, roots []string) (string, bool) {
	var best string
	for _, r := range roots {
		if isInside(path, r) && len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}

// isInside reports whether path is strictly below dir.
func isInside(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
