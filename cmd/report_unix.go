//go:build !windows

package cmd

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// writeReport atomically replaces path with data.
func writeReport(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending report: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			current.logger.Debug().Err(err).Msg("cleanup pending report")
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit report %s: %w", path, err)
	}
	return nil
}
