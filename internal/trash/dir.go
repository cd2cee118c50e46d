package trash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a directory-backed trash store such as the freedesktop.org trash
// ($XDG_DATA_HOME/Trash) or the macOS ~/.Trash.
type Dir struct {
	// Files holds the trashed items themselves.
	Files string

	// Info holds freedesktop ".trashinfo" metadata. Empty on macOS.
	Info string
}

// NewFreedesktop returns the trash rooted at root (root/files, root/info).
func NewFreedesktop(root string) *Dir {
	return &Dir{
		Files: filepath.Join(root, "files"),
		Info:  filepath.Join(root, "info"),
	}
}

// Query sums every top-level item in the store. A store that does not exist
// yet is reported as empty.
func (d *Dir) Query(ctx context.Context) (Info, error) {
	entries, err := os.ReadDir(d.Files)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, nil
		}
		return Info{}, fmt.Errorf("read trash %s: %w", d.Files, err)
	}

	var info Info
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return info, err
		}
		if isMetadata(e.Name()) {
			continue
		}
		info.Items++
		info.Size += itemSize(filepath.Join(d.Files, e.Name()))
	}
	return info, nil
}

// Empty removes every trashed item and its metadata.
func (d *Dir) Empty(ctx context.Context) Outcome {
	entries, err := os.ReadDir(d.Files)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Outcome{Status: StatusAlreadyEmpty}
		}
		return Failed(errnoCode(err), err)
	}

	var items []string
	for _, e := range entries {
		if !isMetadata(e.Name()) {
			items = append(items, e.Name())
		}
	}
	if len(items) == 0 {
		return Outcome{Status: StatusAlreadyEmpty}
	}

	var firstErr error
	for _, name := range items {
		if err := ctx.Err(); err != nil {
			return Failed(0, err)
		}
		if err := os.RemoveAll(filepath.Join(d.Files, name)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if d.Info != "" {
			// Orphaned metadata is harmless; ignore failures.
			_ = os.Remove(filepath.Join(d.Info, name+".trashinfo"))
		}
	}

	if firstErr != nil {
		return Failed(errnoCode(firstErr), firstErr)
	}
	return Outcome{Status: StatusOK}
}

// isMetadata skips Finder bookkeeping files in a macOS trash.
func isMetadata(name string) bool {
	return name == ".DS_Store" || strings.HasPrefix(name, "._")
}

func itemSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total += fi.Size()
			}
		}
		return nil
	})
	return total
}
