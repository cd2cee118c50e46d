// Package disk reports volume capacity for display next to scan results.
package disk

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
)

// Usage is the capacity summary of one volume.
type Usage struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// Summary returns usage for the volume holding path. An empty path means
// the system volume.
func Summary(ctx context.Context, path string) (Usage, error) {
	if path == "" {
		path = DefaultVolume()
	}
	st, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return Usage{Path: path}, fmt.Errorf("disk usage %s: %w", path, err)
	}
	return Usage{
		Path:        path,
		Total:       st.Total,
		Used:        st.Used,
		Free:        st.Free,
		UsedPercent: st.UsedPercent,
	}, nil
}

// DefaultVolume is the system drive on Windows and "/" elsewhere.
func DefaultVolume() string {
	return config.DefaultVolume()
}
