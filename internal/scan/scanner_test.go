package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
	"github.com/lakshaymaurya-felt/drivesweep/internal/trash"
	"github.com/lakshaymaurya-felt/drivesweep/internal/whitelist"
)

type fakeTrash struct {
	info    trash.Info
	err     error
	queries int
}

func (f *fakeTrash) Query(context.Context) (trash.Info, error) {
	f.queries++
	return f.info, f.err
}

func (f *fakeTrash) Empty(context.Context) trash.Outcome {
	return trash.Outcome{Status: trash.StatusOK}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	sort.Strings(out)
	return out
}

func TestScan_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.log"), 10)
	writeFile(t, filepath.Join(root, "b.txt"), 20)
	writeFile(t, filepath.Join(root, "c.LOG"), 30)

	inv := New().Scan(context.Background(), []config.Category{{
		ID:         "logs",
		Name:       "Logs",
		Paths:      []string{root},
		Extensions: []string{".log"},
	}})

	r := inv["logs"]
	require.NotNil(t, r)
	assert.Equal(t, []string{"a.log", "c.LOG"}, names(r.Files))
	assert.Equal(t, 2, r.FileCount)
	assert.Equal(t, int64(40), r.TotalSize)
	assert.Empty(t, r.Error)
	assert.False(t, r.Partial)
}

func TestScan_PatternActivation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "profile", "cache2", "x.dat"), 5)
	writeFile(t, filepath.Join(root, "profile", "cache2", "entries", "deep.bin"), 7)
	writeFile(t, filepath.Join(root, "profile", "other", "y.dat"), 11)
	writeFile(t, filepath.Join(root, "profile", "prefs.js"), 13)

	inv := New().Scan(context.Background(), []config.Category{{
		ID:      "firefox",
		Name:    "Firefox cache",
		Paths:   []string{root},
		Pattern: "CACHE2",
	}})

	r := inv["firefox"]
	assert.Equal(t, []string{"deep.bin", "x.dat"}, names(r.Files))
	assert.Equal(t, int64(12), r.TotalSize)
}

func TestScan_PatternActivationKeepsExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "storage", "run.log"), 1)
	writeFile(t, filepath.Join(root, "storage", "photo.jpg"), 1)
	writeFile(t, filepath.Join(root, "other", "run.log"), 1)

	inv := New().Scan(context.Background(), []config.Category{{
		ID:         "chat",
		Paths:      []string{root},
		Pattern:    "storage",
		Extensions: []string{"log"},
	}})

	r := inv["chat"]
	require.Len(t, r.Files, 1)
	assert.Equal(t, filepath.Join(root, "storage", "run.log"), r.Files[0])
}

func TestScan_FilePatternWithoutDirectoryMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "thumbcache_256.db"), 3)
	writeFile(t, filepath.Join(root, "iconcache_256.db"), 3)

	inv := New().Scan(context.Background(), []config.Category{{
		ID:         "thumbs",
		Paths:      []string{root},
		Extensions: []string{".db"},
		Pattern:    "thumbcache",
	}})

	assert.Equal(t, []string{"thumbcache_256.db"}, names(inv["thumbs"].Files))
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"a/1.tmp", "a/b/2.tmp", "c/3.tmp", "4.tmp"} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(p)), 9)
	}
	cats := []config.Category{{ID: "tmp", Paths: []string{root}}}
	s := New()

	first := s.Scan(context.Background(), cats)
	second := s.Scan(context.Background(), cats)

	assert.Equal(t, first["tmp"].Files, second["tmp"].Files)
	assert.Equal(t, first["tmp"].TotalSize, second["tmp"].TotalSize)
	assert.Equal(t, first["tmp"].FileCount, second["tmp"].FileCount)
	assert.Equal(t, 4, first["tmp"].FileCount)
}

func TestScan_MissingAndFileRoots(t *testing.T) {
	root := t.TempDir()
	dump := filepath.Join(root, "MEMORY.DMP")
	writeFile(t, dump, 64)

	inv := New().Scan(context.Background(), []config.Category{{
		ID:    "dumps",
		Paths: []string{filepath.Join(root, "missing"), dump},
	}})

	r := inv["dumps"]
	assert.Equal(t, []string{dump}, r.Files)
	assert.Equal(t, []string{dump}, r.Roots)
	assert.Empty(t, r.Error)
}

func TestScan_UnreadableRootRecordsError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	open := filepath.Join(root, "open")
	writeFile(t, filepath.Join(locked, "secret.tmp"), 1)
	writeFile(t, filepath.Join(open, "free.tmp"), 1)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	inv := New().Scan(context.Background(), []config.Category{{
		ID:    "tmp",
		Paths: []string{locked, open},
	}})

	r := inv["tmp"]
	assert.Equal(t, errAccessDenied, r.Error)
	assert.Equal(t, []string{"free.tmp"}, names(r.Files))
}

func TestScan_UnreadableNestedDirIsSwallowed(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	root := t.TempDir()
	nested := filepath.Join(root, "nested")
	writeFile(t, filepath.Join(nested, "hidden.tmp"), 1)
	writeFile(t, filepath.Join(root, "visible.tmp"), 1)
	require.NoError(t, os.Chmod(nested, 0o000))
	t.Cleanup(func() { _ = os.Chmod(nested, 0o755) })

	r := New().Scan(context.Background(), []config.Category{{ID: "tmp", Paths: []string{root}}})["tmp"]
	assert.Empty(t, r.Error)
	assert.Equal(t, []string{"visible.tmp"}, names(r.Files))
}

func TestScan_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "precious.txt"), 1)
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link-dir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "precious.txt"), filepath.Join(root, "link-file")))

	r := New().Scan(context.Background(), []config.Category{{ID: "tmp", Paths: []string{root}}})["tmp"]
	assert.Empty(t, r.Files)
}

func TestScan_GuardSkipsProtected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "important.tmp"), 1)
	writeFile(t, filepath.Join(root, "session.lock"), 1)
	writeFile(t, filepath.Join(root, "junk.tmp"), 1)

	wl := whitelist.New([]string{filepath.Join(root, "keep"), "*.lock"})
	r := New(WithGuard(wl)).Scan(context.Background(), []config.Category{{ID: "tmp", Paths: []string{root}}})["tmp"]
	assert.Equal(t, []string{"junk.tmp"}, names(r.Files))
}

func TestScan_Trash(t *testing.T) {
	ft := &fakeTrash{info: trash.Info{Size: 4096, Items: 3}}

	inv := New(WithTrash(ft)).Scan(context.Background(), []config.Category{{
		ID:      "recycle_bin",
		Name:    "Recycle Bin",
		Special: config.SpecialTrash,
	}})

	r := inv["recycle_bin"]
	assert.Equal(t, 1, ft.queries)
	assert.Equal(t, int64(4096), r.TotalSize)
	assert.Equal(t, 3, r.FileCount)
	assert.Empty(t, r.Files)
	assert.Equal(t, config.SpecialTrash, r.Special)
}

func TestScan_TrashErrors(t *testing.T) {
	cat := config.Category{ID: "bin", Special: config.SpecialTrash}

	r := New(WithTrash(&fakeTrash{err: errors.New("SHQueryRecycleBinW failed")})).
		Scan(context.Background(), []config.Category{cat})["bin"]
	assert.Equal(t, "SHQueryRecycleBinW failed", r.Error)

	r = New().Scan(context.Background(), []config.Category{cat})["bin"]
	assert.Equal(t, trash.ErrUnavailable.Error(), r.Error)
}

func TestScan_ProgressEvents(t *testing.T) {
	var events []notify.Event
	sink := notify.Func(func(e notify.Event) { events = append(events, e) })

	cats := []config.Category{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
		{ID: "d", Name: "D"},
	}
	New(WithNotifier(sink)).Scan(context.Background(), cats)

	require.Len(t, events, 5)
	for i, want := range []int{0, 25, 50, 75, 100} {
		assert.Equal(t, notify.ScanProgress, events[i].Kind)
		assert.Equal(t, want, events[i].Percent)
	}
	assert.Equal(t, "A", events[0].Category)
	assert.Equal(t, DoneLabel, events[4].Category)
}

func TestScan_CancellationPartiality(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, filepath.Join(root, "dir", string(rune('a'+i%26))+string(rune('a'+i/26))+".tmp"), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cats := []config.Category{
		{ID: "first", Name: "first", Paths: []string{root}},
		{ID: "second", Name: "second", Paths: []string{root}},
		{ID: "third", Name: "third", Paths: []string{root}},
		{ID: "fourth", Name: "fourth", Paths: []string{root}},
	}

	// Cancel as soon as the second category starts.
	sink := notify.Func(func(e notify.Event) {
		if e.Category == "second" {
			cancel()
		}
	})
	inv := New(WithNotifier(sink)).Scan(ctx, cats)

	assert.Less(t, len(inv), len(cats))
	require.Contains(t, inv, "first")
	require.Contains(t, inv, "second")
	assert.NotContains(t, inv, "third")
	assert.NotContains(t, inv, "fourth")

	first := inv["first"]
	assert.False(t, first.Partial)
	assert.Equal(t, 50, first.FileCount)

	second := inv["second"]
	assert.True(t, second.Partial)
	assert.Equal(t, "second", second.ID)
	assert.Equal(t, len(second.Files), second.FileCount)
}

func TestInventory_Sizes(t *testing.T) {
	inv := Inventory{
		"a": {ID: "a", TotalSize: 10},
		"b": {ID: "b", TotalSize: 20},
	}
	assert.Equal(t, int64(30), inv.TotalSize())
	assert.Equal(t, int64(10), inv.SelectedSize([]string{"a", "a", "zzz"}))
	assert.Equal(t, []string{"a", "b"}, inv.IDs())
}

func TestInventory_SelectedCountIncludesEmptyFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "stale.lock"), nil, 0o644))

	inv := New().Scan(context.Background(), []config.Category{{ID: "z", Name: "Z", Paths: []string{root}}})
	assert.Zero(t, inv.SelectedSize([]string{"z"}))
	assert.Equal(t, 1, inv.SelectedCount([]string{"z", "z", "missing"}))
}
