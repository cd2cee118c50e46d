//go:build windows

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeReport replaces path with data through a temp file and rename.
func writeReport(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dsweep-report-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	tmp = nil

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("commit report %s: %w", path, err)
	}
	return nil
}
