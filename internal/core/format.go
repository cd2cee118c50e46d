package core

import "fmt"

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
	tib = 1024 * gib
)

// FormatSize renders a byte count the way the reports show it:
// "512 B", "1.5 KB", "12.3 MB", "4.21 GB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		// -bytes overflows for math.MinInt64, the unsigned magnitude does not.
		return "-" + formatUnsigned(uint64(-(bytes+1))+1)
	}
	return formatUnsigned(uint64(bytes))
}

func formatUnsigned(bytes uint64) string {
	switch {
	case bytes < kib:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mib:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kib)
	case bytes < gib:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mib)
	case bytes < tib:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gib)
	default:
		return fmt.Sprintf("%.2f TB", float64(bytes)/tib)
	}
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
