package scan

import "sort"

// Result is the inventory of one category.
type Result struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Special string   `json:"special,omitempty"`
	Roots   []string `json:"roots,omitempty"`

	TotalSize int64    `json:"total_size"`
	FileCount int      `json:"file_count"`
	Files     []string `json:"files,omitempty"`

	// Error is the last category-level failure, such as an unreadable root.
	Error string `json:"error,omitempty"`

	// Partial is set when cancellation interrupted this category.
	Partial bool `json:"partial,omitempty"`
}

func (r *Result) add(path string, size int64) {
	r.TotalSize += size
	r.FileCount++
	r.Files = append(r.Files, path)
}

// Inventory maps category id to its scan result.
type Inventory map[string]*Result

// TotalSize sums every result.
func (inv Inventory) TotalSize() int64 {
	var total int64
	for _, r := range inv {
		total += r.TotalSize
	}
	return total
}

// SelectedSize sums the results for ids, ignoring unknown ids.
func (inv Inventory) SelectedSize(ids []string) int64 {
	var total int64
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := inv[id]; ok {
			total += r.TotalSize
		}
	}
	return total
}

// SelectedCount sums FileCount for ids, ignoring unknown and repeated ids.
// Zero-byte files count, so this, not SelectedSize, decides whether there
// is anything to clean.
func (inv Inventory) SelectedCount(ids []string) int {
	var total int
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := inv[id]; ok && r != nil {
			total += r.FileCount
		}
	}
	return total
}

// IDs returns the category ids in sorted order.
func (inv Inventory) IDs() []string {
	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
