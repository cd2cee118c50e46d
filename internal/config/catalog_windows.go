//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// userProfile returns the user profile directory.
func userProfile() string {
	return envOr("USERPROFILE", `C:\Users\Default`)
}

// localAppData returns the local app data directory.
func localAppData() string {
	return envOr("LOCALAPPDATA", filepath.Join(userProfile(), "AppData", "Local"))
}

// appData returns the roaming app data directory.
func appData() string {
	return envOr("APPDATA", filepath.Join(userProfile(), "AppData", "Roaming"))
}

// winDir returns the Windows directory (e.g., C:\Windows).
func winDir() string {
	return envOr("WINDIR", `C:\Windows`)
}

// programData returns the ProgramData directory (e.g., C:\ProgramData).
func programData() string {
	return envOr("PROGRAMDATA", `C:\ProgramData`)
}

// systemDrive returns the system drive with backslash (e.g., C:\).
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

func tempDir() string {
	return envOr("TEMP", filepath.Join(localAppData(), "Temp"))
}

// DefaultCatalog returns the built-in Windows catalog with paths expanded.
func DefaultCatalog() Catalog {
	local := localAppData()
	roaming := appData()
	home := userProfile()

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
			Description:   "Windows system temporary files",
			Paths:         []string{filepath.Join(winDir(), "Temp")},
			Risk:          RiskLow,
			Enabled:       true,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "chrome_cache",
			Name:        "Chrome cache",
			Description: "Google Chrome browser cache",
			Paths: []string{
				filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Cache"),
				filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Code Cache"),
				filepath.Join(local, "Google", "Chrome", "User Data", "Default", "GPUCache"),
			},
			Risk:    RiskLow,
			Enabled: true,
			Group:   "browser",
		},
		{
			ID:          "edge_cache",
			Name:        "Edge cache",
			Description: "Microsoft Edge browser cache",
			Paths: []string{
				filepath.Join(local, "Microsoft", "Edge", "User Data", "Default", "Cache"),
				filepath.Join(local, "Microsoft", "Edge", "User Data", "Default", "Code Cache"),
				filepath.Join(local, "Microsoft", "Edge", "User Data", "Default", "GPUCache"),
			},
			Risk:    RiskLow,
			Enabled: true,
			Group:   "browser",
		},
		{
			ID:          "firefox_cache",
			Name:        "Firefox cache",
			Description: "Mozilla Firefox cache2 stores inside every profile",
			Paths:       []string{filepath.Join(local, "Mozilla", "Firefox", "Profiles")},
			Pattern:     "cache2",
			Risk:        RiskLow,
			Enabled:     true,
			Group:       "browser",
		},
		{
			ID:            "windows_update",
			Name:          "Windows Update cache",
			Description:   "Downloaded Windows Update packages",
			Paths:         []string{filepath.Join(winDir(), "SoftwareDistribution", "Download")},
			Risk:          RiskMedium,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "thumbnail_cache",
			Name:        "Thumbnail cache",
			Description: "Windows Explorer thumbnail cache (thumbcache_*.db)",
			Paths:       []string{filepath.Join(local, "Microsoft", "Windows", "Explorer")},
			Extensions:  []string{".db"},
			Pattern:     "thumbcache",
			Risk:        RiskLow,
			Enabled:     true,
			Group:       "user",
		},
		{
			ID:          "windows_logs",
			Name:        "Windows log files",
			Description: "System and application logs",
			Paths: []string{
				filepath.Join(winDir(), "Logs"),
				filepath.Join(local, "Temp"),
			},
			Extensions:    []string{".log", ".txt", ".etl"},
			Risk:          RiskMedium,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "prefetch",
			Name:        "Prefetch and shader cache",
			Description: "Windows prefetch files and DirectX shader cache",
			Paths: []string{
				filepath.Join(winDir(), "Prefetch"),
				filepath.Join(local, "D3DSCache"),
				filepath.Join(local, "DirectX Shader Cache"),
			},
			Extensions:    []string{".pf", ".bin"},
			Risk:          RiskMedium,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "recycle_bin",
			Name:        "Recycle Bin",
			Description: "Windows Recycle Bin (emptied via system API)",
			Risk:        RiskLow,
			Enabled:     true,
			Special:     SpecialTrash,
			Group:       "user",
		},
		{
			ID:          "recent_files",
			Name:        "Recent file shortcuts",
			Description: "Shortcuts to recently opened files",
			Paths:       []string{filepath.Join(roaming, "Microsoft", "Windows", "Recent")},
			Extensions:  []string{".lnk"},
			Risk:        RiskLow,
			Group:       "user",
		},
		{
			ID:          "error_reports",
			Name:        "Error reports",
			Description: "Windows Error Reporting crash dumps and reports",
			Paths: []string{
				filepath.Join(local, "Microsoft", "Windows", "WER"),
				filepath.Join(programData(), "Microsoft", "Windows", "WER"),
			},
			Risk:    RiskLow,
			Enabled: true,
			Group:   "system",
		},
		{
			ID:          "memory_dumps",
			Name:        "Memory dumps",
			Description: "Kernel and minidump crash files",
			Paths: []string{
				filepath.Join(winDir(), "MEMORY.DMP"),
				filepath.Join(winDir(), "Minidump"),
			},
			Risk:          RiskLow,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "delivery_optimization",
			Name:        "Delivery Optimization files",
			Description: "Peer-to-peer Windows Update cache",
			Paths: []string{
				filepath.Join(winDir(), "ServiceProfiles", "NetworkService", "AppData", "Local",
					"Microsoft", "Windows", "DeliveryOptimization", "Cache"),
			},
			Risk:          RiskMedium,
			Group:         "system",
			RequiresAdmin: true,
		},
		{
			ID:          "software_cache",
			Name:        "Application caches",
			Description: "VS Code, NetEase Cloud Music and DingTalk caches",
			Paths: []string{
				filepath.Join(local, "Netease", "CloudMusic", "Cache"),
				filepath.Join(roaming, "Code", "Cache"),
				filepath.Join(roaming, "Code", "CachedData"),
				filepath.Join(roaming, "DingTalk"),
			},
			Pattern: "cache",
			Risk:    RiskLow,
			Enabled: true,
			Group:   "app",
		},
		{
			ID:          "chat_cache",
			Name:        "Chat client leftovers",
			Description: "WeChat and QQ run logs and temporary storage",
			Paths: []string{
				filepath.Join(home, "Documents", "WeChat Files"),
				filepath.Join(home, "Documents", "Tencent Files"),
			},
			Extensions: []string{".log", ".tmp"},
			Pattern:    "storage",
			Risk:       RiskMedium,
			Group:      "app",
		},
		{
			ID:          "dev_caches",
			Name:        "Developer tool caches",
			Description: "npm, pip and Go module download caches",
			Paths: []string{
				filepath.Join(roaming, "npm-cache"),
				filepath.Join(local, "pip", "Cache"),
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
// circumstances, resolved through environment variables so installations on
// any drive letter are covered.
func NeverDeletePaths() []string {
	w := winDir()
	sd := systemDrive()
	return []string{
		sd,
		w,
		filepath.Join(w, "System32"),
		filepath.Join(w, "SysWOW64"),
		filepath.Join(w, "WinSxS"),
		filepath.Join(w, "assembly"),
		filepath.Join(w, "System32", "config"),
		filepath.Join(sd, "Boot"),
		filepath.Join(sd, "bootmgr"),
		filepath.Join(sd, "EFI"),
		envOr("PROGRAMFILES", `C:\Program Files`),
		envOr("PROGRAMFILES(X86)", `C:\Program Files (x86)`),
		filepath.Join(sd, "Users"),
		userProfile(),
		programData(),
		filepath.Join(sd, "Recovery"),
		filepath.Join(w, "Installer"),
		filepath.Join(w, "servicing"),
	}
}

// DefaultVolume returns the volume reported by the disk summary.
func DefaultVolume() string {
	return systemDrive()
}
