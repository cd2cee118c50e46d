//go:build !windows

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return envOr("HOME", "/root")
}

// cacheHome follows XDG on Linux and ~/Library/Caches on macOS.
func cacheHome() string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir(), "Library", "Caches")
	}
	return envOr("XDG_CACHE_HOME", filepath.Join(homeDir(), ".cache"))
}

func stateHome() string {
	return envOr("XDG_STATE_HOME", filepath.Join(homeDir(), ".local", "state"))
}

func tempDir() string {
	return envOr("TMPDIR", "/tmp")
}

// DefaultCatalog returns the built-in catalog for Linux, BSD and macOS.
func DefaultCatalog() Catalog {
	home := homeDir()
	cache := cacheHome()

	cats := []Category{
		{
			ID:          "user_temp",
			Name:        "User temporary files",
			Description: "Temporary files left behind by applications",
			Paths:       []string{tempDir()},
			Risk:        RiskLow,
			Enabled:     true,
			Group:       "user",
		},
		{
			ID:            "system_temp",
			Name:          "System temporary files",
			Description:   "Files kept across reboots in /var/tmp",
			Paths:         []string{"/var/tmp"},
			Risk:          RiskLow,
			Enabled:       true,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "chrome_cache",
			Name:        "Chrome cache",
			Description: "Google Chrome and Chromium browser cache",
			Paths: []string{
				filepath.Join(cache, "google-chrome"),
				filepath.Join(cache, "chromium"),
				filepath.Join(cache, "Google", "Chrome"),
			},
			Risk:    RiskLow,
			Enabled: true,
			Group:   "browser",
		},
		{
			ID:          "firefox_cache",
			Name:        "Firefox cache",
			Description: "Mozilla Firefox cache2 stores inside every profile",
			Paths: []string{
				filepath.Join(cache, "mozilla", "firefox"),
				filepath.Join(cache, "Firefox", "Profiles"),
			},
			Pattern: "cache2",
			Risk:    RiskLow,
			Enabled: true,
			Group:   "browser",
		},
		{
			ID:          "thumbnail_cache",
			Name:        "Thumbnail cache",
			Description: "Desktop thumbnail previews",
			Paths:       []string{filepath.Join(cache, "thumbnails")},
			Extensions:  []string{".png"},
			Risk:        RiskLow,
			Enabled:     true,
			Group:       "user",
		},
		{
			ID:          "user_logs",
			Name:        "Application log files",
			Description: "Logs written by desktop applications",
			Paths: []string{
				stateHome(),
				filepath.Join(home, "Library", "Logs"),
			},
			Extensions: []string{".log", ".txt"},
			Risk:       RiskMedium,
			Group:      "user",
		},
		{
			ID:            "system_logs",
			Name:          "Rotated system logs",
			Description:   "Compressed and rotated logs under /var/log",
			Paths:         []string{"/var/log"},
			Extensions:    []string{".gz", ".old", ".1"},
			Risk:          RiskMedium,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "trash",
			Name:        "Trash",
			Description: "Files moved to the desktop trash",
			Risk:        RiskLow,
			Enabled:     true,
			Special:     SpecialTrash,
			Group:       "user",
		},
		{
			ID:          "software_cache",
			Name:        "Application caches",
			Description: "VS Code and Electron application caches",
			Paths: []string{
				filepath.Join(home, ".config", "Code"),
				filepath.Join(home, "Library", "Application Support", "Code"),
			},
			Pattern: "cache",
			Risk:    RiskLow,
			Enabled: true,
			Group:   "app",
		},
		{
			ID:          "dev_caches",
			Name:        "Developer tool caches",
			Description: "npm, pip and Go module download caches",
			Paths: []string{
				filepath.Join(home, ".npm", "_cacache"),
				filepath.Join(cache, "pip"),
				filepath.Join(home, "go", "pkg", "mod", "cache", "download"),
			},
			Risk:  RiskMedium,
			Group: "dev",
		},
	}

	catalog, err := NewCatalog(cats)
	if err != nil {
		// The built-in list is static; failing here is a programming error.
		panic(err)
	}
	return catalog
}

// NeverDeletePaths returns paths that must never be deleted under any
// circumstances.
func NeverDeletePaths() []string {
	home := homeDir()
	return []string{
		"/",
		"/bin",
		"/boot",
		"/etc",
		"/home",
		"/lib",
		"/opt",
		"/sbin",
		"/tmp",
		"/usr",
		"/var",
		"/var/log",
		"/var/tmp",
		home,
		filepath.Join(home, ".cache"),
		filepath.Join(home, ".config"),
		filepath.Join(home, "Library"),
	}
}

// DefaultVolume returns the volume reported by the disk summary.
func DefaultVolume() string {
	return "/"
}
