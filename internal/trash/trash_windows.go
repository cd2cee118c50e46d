//go:build windows

package trash

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ─── Shell32 Syscalls ────────────────────────────────────────────────────────

var (
	modShell32          = windows.NewLazySystemDLL("shell32.dll")
	procEmptyRecycleBin = modShell32.NewProc("SHEmptyRecycleBinW")
	procQueryRecycleBin = modShell32.NewProc("SHQueryRecycleBinW")
)

const (
	sherbNoConfirmation = 0x00000001
	sherbNoProgressUI   = 0x00000002
	sherbNoSound        = 0x00000004

	// E_UNEXPECTED is what SHEmptyRecycleBinW returns for an empty bin.
	hresultEmptyBin = 0x8000FFFF
)

// shQueryRBInfo mirrors the Windows SHQUERYRBINFO struct.
// Go's natural alignment adds padding after cbSize on AMD64,
// matching the C struct layout on both 32-bit and 64-bit.
type shQueryRBInfo struct {
	cbSize      uint32
	i64Size     int64
	i64NumItems int64
}

type recycleBin struct{}

func newPlatformAdapter() Adapter {
	return recycleBin{}
}

// Query sums the Recycle Bin across all drives using SHQueryRecycleBinW.
func (recycleBin) Query(ctx context.Context) (Info, error) {
	if err := procQueryRecycleBin.Find(); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var info shQueryRBInfo
	info.cbSize = uint32(unsafe.Sizeof(info))

	ret, _, _ := procQueryRecycleBin.Call(
		0, // NULL = query all drives
		uintptr(unsafe.Pointer(&info)),
	)
	if ret != 0 {
		return Info{}, fmt.Errorf("SHQueryRecycleBinW failed: HRESULT 0x%08x", uint32(ret))
	}

	return Info{Size: info.i64Size, Items: info.i64NumItems}, nil
}

// Empty empties the Recycle Bin on all drives via SHEmptyRecycleBinW.
func (recycleBin) Empty(ctx context.Context) Outcome {
	if err := procEmptyRecycleBin.Find(); err != nil {
		return Failed(0, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	flags := uintptr(sherbNoConfirmation | sherbNoProgressUI | sherbNoSound)
	ret, _, _ := procEmptyRecycleBin.Call(0, 0, flags)

	switch hr := uint32(ret); hr {
	case 0:
		return Outcome{Status: StatusOK}
	case hresultEmptyBin:
		return Outcome{Status: StatusAlreadyEmpty}
	default:
		return Failed(hr, nil)
	}
}

func errnoCode(err error) uint32 {
	var errno windows.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
