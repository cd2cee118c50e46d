package clean

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
	"github.com/lakshaymaurya-felt/drivesweep/internal/trash"
	"github.com/lakshaymaurya-felt/drivesweep/internal/whitelist"
)

type fakeTrash struct {
	outcome trash.Outcome
	empties int
}

func (f *fakeTrash) Query(context.Context) (trash.Info, error) {
	return trash.Info{}, nil
}

func (f *fakeTrash) Empty(context.Context) trash.Outcome {
	f.empties++
	return f.outcome
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func scanOne(t *testing.T, cat config.Category) scan.Inventory {
	t.Helper()
	return scan.New().Scan(context.Background(), []config.Category{cat})
}

func skipIfNoPermissionBits(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
}

func TestClean_RemovesFilesAndAccounts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.tmp"), 100)
	writeFile(t, filepath.Join(root, "sub", "b.tmp"), 200)
	writeFile(t, filepath.Join(root, "sub", "deep", "c.tmp"), 300)

	inv := scanOne(t, config.Category{ID: "tmp", Name: "Temp", Paths: []string{root}})
	rep := New().Clean(context.Background(), inv, []string{"tmp"})

	r := rep["tmp"]
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Removed)
	assert.Zero(t, r.Failed)
	assert.Equal(t, int64(600), r.Freed)
	assert.Equal(t, len(inv["tmp"].Files), r.Removed+r.Failed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "emptied subdirectories are pruned")
	assert.DirExists(t, root)
}

func TestClean_DirectoryEntry(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "bundle")
	writeFile(t, filepath.Join(dir, "x.bin"), 10)
	writeFile(t, filepath.Join(dir, "y", "z.bin"), 15)

	inv := scan.Inventory{"bundle": {
		ID:    "bundle",
		Name:  "Bundle",
		Roots: []string{root},
		Files: []string{dir},
	}}
	r := New().Clean(context.Background(), inv, []string{"bundle"})["bundle"]

	assert.Equal(t, 1, r.Removed)
	assert.Equal(t, int64(25), r.Freed)
	assert.NoDirExists(t, dir)
}

func TestClean_MissingPathSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.tmp"), 5)

	inv := scan.Inventory{"tmp": {
		ID:    "tmp",
		Roots: []string{root},
		Files: []string{filepath.Join(root, "gone.tmp"), filepath.Join(root, "keep.tmp")},
	}}
	r := New().Clean(context.Background(), inv, []string{"tmp"})["tmp"]

	assert.Equal(t, 1, r.Removed)
	assert.Equal(t, 1, r.Skipped)
	assert.Zero(t, r.Failed)
	assert.Equal(t, 2, r.Removed+r.Failed+r.Skipped)
}

func TestClean_PruningStopsAtRoots(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	writeFile(t, filepath.Join(root, "a", "b", "f1.tmp"), 1)
	writeFile(t, filepath.Join(root, "a", "b", "f2.tmp"), 1)
	writeFile(t, filepath.Join(root, "other", "keep.dat"), 1)

	cat := config.Category{ID: "tmp", Paths: []string{root}, Extensions: []string{".tmp"}}
	inv := scanOne(t, cat)
	r := New().Clean(context.Background(), inv, []string{"tmp"})["tmp"]
	require.Equal(t, 2, r.Removed)

	assert.NoDirExists(t, filepath.Join(root, "a", "b"))
	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.FileExists(t, filepath.Join(root, "other", "keep.dat"))

	// Once everything is gone the root itself still stays.
	require.NoError(t, os.Remove(filepath.Join(root, "other", "keep.dat")))
	inv = scanOne(t, config.Category{ID: "tmp", Paths: []string{root}})
	assert.Empty(t, inv["tmp"].Files)

	writeFile(t, filepath.Join(root, "x", "last.tmp"), 1)
	inv = scanOne(t, cat)
	New().Clean(context.Background(), inv, []string{"tmp"})
	assert.DirExists(t, root)
	assert.DirExists(t, filepath.Join(root, "other"), "other was never an ancestor of a cleaned file")
	assert.NoDirExists(t, filepath.Join(root, "x"))
}

func TestClean_PruningKeepsNonEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "junk.tmp"), 1)
	writeFile(t, filepath.Join(root, "a", "notes.txt"), 1)

	inv := scanOne(t, config.Category{ID: "tmp", Paths: []string{root}, Extensions: []string{".tmp"}})
	New().Clean(context.Background(), inv, []string{"tmp"})

	assert.DirExists(t, filepath.Join(root, "a"))
	assert.FileExists(t, filepath.Join(root, "a", "notes.txt"))
}

func TestEmptyDirCandidates(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data", "root")
	files := []string{
		filepath.Join(root, "a", "b", "c", "f"),
		filepath.Join(root, "a", "g"),
		filepath.Join(root, "h"),
		filepath.Join(string(filepath.Separator), "elsewhere", "x"),
	}

	got := emptyDirCandidates(files, []string{root}, nil)
	want := []string{
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a"),
	}
	assert.Equal(t, want, got)
}

func TestEmptyDirCandidates_SkipsKept(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data", "root")
	inner := filepath.Join(root, "x", "inner")
	files := []string{filepath.Join(inner, "f")}

	got := emptyDirCandidates(files, []string{root}, []string{inner + string(filepath.Separator)})
	assert.Equal(t, []string{filepath.Join(root, "x")}, got)
}

func TestClean_PruningKeepsOtherCategoryRoots(t *testing.T) {
	outer := t.TempDir()
	inner := filepath.Join(outer, "x", "inner")
	writeFile(t, filepath.Join(inner, "f.tmp"), 4)

	inv := scan.New().Scan(context.Background(), []config.Category{
		{ID: "a", Name: "A", Paths: []string{outer}},
		{ID: "b", Name: "B", Paths: []string{inner}},
	})
	require.Equal(t, []string{inner}, inv["b"].Roots)

	rep := New().Clean(context.Background(), inv, []string{"a"})
	assert.Equal(t, 1, rep["a"].Removed)

	assert.NoFileExists(t, filepath.Join(inner, "f.tmp"))
	assert.DirExists(t, inner, "root of category b must survive cleaning a")
	assert.DirExists(t, outer)
}

func TestClean_PermissionFailureThenRerun(t *testing.T) {
	skipIfNoPermissionBits(t)

	root := t.TempDir()
	lockedDir := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(lockedDir, "held.tmp"), 10)
	writeFile(t, filepath.Join(root, "free.tmp"), 20)

	cat := config.Category{ID: "tmp", Name: "Temp", Paths: []string{root}}
	inv := scanOne(t, cat)
	require.Len(t, inv["tmp"].Files, 2)

	require.NoError(t, os.Chmod(lockedDir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(lockedDir, 0o755) })

	first := New().Clean(context.Background(), inv, []string{"tmp"})["tmp"]
	assert.Equal(t, 1, first.Removed)
	assert.Equal(t, 1, first.Failed)
	assert.Equal(t, 1, first.Denied)
	assert.Len(t, first.Errors, 1)
	assert.Equal(t, int64(20), first.Freed)
	assert.Equal(t, 2, first.Removed+first.Failed)

	require.NoError(t, os.Chmod(lockedDir, 0o755))

	inv = scanOne(t, cat)
	require.Len(t, inv["tmp"].Files, 1)
	second := New().Clean(context.Background(), inv, []string{"tmp"})["tmp"]
	assert.Equal(t, 1, second.Removed)
	assert.Zero(t, second.Failed)
	assert.Equal(t, int64(10), second.Freed)
}

func TestClean_ErrorListBoundedCountsExact(t *testing.T) {
	skipIfNoPermissionBits(t)

	root := t.TempDir()
	lockedDir := filepath.Join(root, "locked")
	const n = MaxRecordedErrors + 15
	for i := 0; i < n; i++ {
		writeFile(t, filepath.Join(lockedDir, fmt.Sprintf("f%03d.tmp", i)), 1)
	}

	var logs []string
	sink := notify.Func(func(e notify.Event) {
		if e.Kind == notify.Log {
			logs = append(logs, e.Message)
		}
	})

	inv := scanOne(t, config.Category{ID: "tmp", Name: "Temp", Paths: []string{root}})
	require.NoError(t, os.Chmod(lockedDir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(lockedDir, 0o755) })

	r := New(WithNotifier(sink)).Clean(context.Background(), inv, []string{"tmp"})["tmp"]
	assert.Equal(t, n, r.Failed)
	assert.Equal(t, n, r.Denied)
	assert.Len(t, r.Errors, MaxRecordedErrors)

	var deniedLines int
	for _, l := range logs {
		if strings.HasPrefix(l, "  denied ") {
			deniedLines++
		}
	}
	assert.Equal(t, 2, deniedLines)
}

func TestClean_ProgressBatching(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 250; i++ {
		writeFile(t, filepath.Join(root, "big", fmt.Sprintf("f%03d.tmp", i)), 1)
	}
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(root, "small", fmt.Sprintf("s%d.tmp", i)), 1)
	}

	inv := scan.New().Scan(context.Background(), []config.Category{
		{ID: "big", Name: "Big", Paths: []string{filepath.Join(root, "big")}},
		{ID: "small", Name: "Small", Paths: []string{filepath.Join(root, "small")}},
	})

	var events []notify.Event
	sink := notify.Func(func(e notify.Event) {
		if e.Kind == notify.CleanProgress {
			events = append(events, e)
		}
	})
	New(WithNotifier(sink)).Clean(context.Background(), inv, []string{"big", "small"})

	var big, small []notify.Event
	for _, e := range events {
		assert.Equal(t, 253, e.Total)
		if e.Category == "Big" {
			big = append(big, e)
		} else {
			small = append(small, e)
		}
	}

	// interval = 250/100 = 2 → indexes 0,2,...,248 plus the final 249.
	assert.Len(t, big, 126)
	assert.Equal(t, 250, big[len(big)-1].Processed)

	require.Len(t, small, 3)
	assert.Equal(t, 251, small[0].Processed)
	assert.Equal(t, 253, small[2].Processed)
}

func TestClean_Trash(t *testing.T) {
	inv := scan.Inventory{"bin": {ID: "bin", Name: "Recycle Bin", Special: config.SpecialTrash, FileCount: 4}}

	tests := []struct {
		name        string
		outcome     trash.Outcome
		wantRemoved int
		wantFailed  int
		wantErr     string
	}{
		{"ok", trash.Outcome{Status: trash.StatusOK}, 1, 0, ""},
		{"already empty", trash.Outcome{Status: trash.StatusAlreadyEmpty}, 1, 0, ""},
		{"failed", trash.Failed(0x80004005, nil), 0, 1, "empty trash failed (code 0x80004005)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTrash{outcome: tt.outcome}
			r := New(WithTrash(ft)).Clean(context.Background(), inv, []string{"bin"})["bin"]

			assert.Equal(t, 1, ft.empties)
			assert.Equal(t, tt.wantRemoved, r.Removed)
			assert.Equal(t, tt.wantFailed, r.Failed)
			assert.Zero(t, r.Freed)
			if tt.wantErr == "" {
				assert.Empty(t, r.Errors)
			} else {
				assert.Equal(t, []string{tt.wantErr}, r.Errors)
			}
		})
	}
}

func TestClean_TrashWithoutAdapter(t *testing.T) {
	inv := scan.Inventory{"bin": {ID: "bin", Special: config.SpecialTrash}}
	r := New().Clean(context.Background(), inv, []string{"bin"})["bin"]
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, []string{trash.ErrUnavailable.Error()}, r.Errors)
}

func TestClean_DryRun(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "sub", "a.tmp")
	writeFile(t, file, 42)

	inv := scanOne(t, config.Category{ID: "tmp", Paths: []string{root}})
	inv["bin"] = &scan.Result{ID: "bin", Special: config.SpecialTrash}
	ft := &fakeTrash{}

	rep := New(WithDryRun(true), WithTrash(ft)).Clean(context.Background(), inv, []string{"tmp", "bin"})

	assert.Equal(t, 1, rep["tmp"].Removed)
	assert.Equal(t, int64(42), rep["tmp"].Freed)
	assert.FileExists(t, file)
	assert.Zero(t, ft.empties)
	assert.Equal(t, 1, rep["bin"].Removed)
}

func TestClean_GuardRefusesProtected(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.tmp")
	writeFile(t, keep, 1)

	inv := scan.Inventory{"tmp": {ID: "tmp", Roots: []string{root}, Files: []string{keep}}}
	wl := whitelist.New(nil).WithExact(keep)

	r := New(WithGuard(wl)).Clean(context.Background(), inv, []string{"tmp"})["tmp"]
	assert.Equal(t, 1, r.Skipped)
	assert.Zero(t, r.Removed)
	assert.FileExists(t, keep)
}

func TestClean_SelectionAndCancellation(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, name, "f.tmp"), 1)
	}
	inv := scan.New().Scan(context.Background(), []config.Category{
		{ID: "a", Name: "a", Paths: []string{filepath.Join(root, "a")}},
		{ID: "b", Name: "b", Paths: []string{filepath.Join(root, "b")}},
		{ID: "c", Name: "c", Paths: []string{filepath.Join(root, "c")}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel once category "b" reports progress; "c" must never start.
	sink := notify.Func(func(e notify.Event) {
		if e.Kind == notify.CleanProgress && e.Category == "b" {
			cancel()
		}
	})
	rep := New(WithNotifier(sink)).Clean(ctx, inv, []string{"b", "unknown", "a", "b", "c"})

	assert.Equal(t, []string{"b"}, rep.IDs())
	assert.Equal(t, 1, rep["b"].Removed)
	assert.FileExists(t, filepath.Join(root, "a", "f.tmp"))
	assert.FileExists(t, filepath.Join(root, "c", "f.tmp"))
}

func TestReport_Totals(t *testing.T) {
	rep := Report{
		"a": {Freed: 10, Removed: 1, Failed: 2},
		"b": {Freed: 5, Removed: 3},
	}
	assert.Equal(t, int64(15), rep.TotalFreed())
	assert.Equal(t, 4, rep.TotalRemoved())
	assert.Equal(t, 2, rep.TotalFailed())
}
