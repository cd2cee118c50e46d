//go:build !windows

package trash

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sys/unix"
)

func newPlatformAdapter() Adapter {
	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return &Dir{Files: filepath.Join(home, ".Trash")}
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return NewFreedesktop(filepath.Join(dataHome, "Trash"))
}

func errnoCode(err error) uint32 {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
