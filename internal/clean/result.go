package clean

import "sort"

// MaxRecordedErrors bounds Result.Errors; counts stay exact beyond it.
const MaxRecordedErrors = 10

// Result is the outcome of cleaning one category.
type Result struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Freed   int64 `json:"freed"`
	Removed int   `json:"removed"`
	Failed  int   `json:"failed"`

	// Denied counts the failures caused by permissions or locked files.
	// It is a subset of Failed.
	Denied int `json:"denied"`

	// Skipped counts paths that were already gone or are protected.
	Skipped int `json:"skipped"`

	Errors  []string `json:"errors,omitempty"`
	Partial bool     `json:"partial,omitempty"`
}

func (r *Result) recordError(msg string) {
	if len(r.Errors) < MaxRecordedErrors {
		r.Errors = append(r.Errors, msg)
	}
}

// Report maps category id to its clean result.
type Report map[string]*Result

// TotalFreed sums freed bytes.
func (rep Report) TotalFreed() int64 {
	var n int64
	for _, r := range rep {
		n += r.Freed
	}
	return n
}

// TotalRemoved sums successfully removed entries.
func (rep Report) TotalRemoved() int {
	var n int
	for _, r := range rep {
		n += r.Removed
	}
	return n
}

// TotalFailed sums failed removals.
func (rep Report) TotalFailed() int {
	var n int
	for _, r := range rep {
		n += r.Failed
	}
	return n
}

// IDs returns the category ids in sorted order.
func (rep Report) IDs() []string {
	ids := make([]string, 0, len(rep))
	for id := range rep {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
