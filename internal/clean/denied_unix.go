//go:build !windows

package clean

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// isDenied reports permission failures and busy files.
func isDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY)
}
