//go:build windows

package clean

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/windows"
)

// isDenied reports permission failures and files held open by another
// process.
func isDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
