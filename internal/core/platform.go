package core

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// PlatformString returns a human-readable OS description.
// Examples: "windows 10.0.22631 (amd64)", "ubuntu 24.04 (arm64)"
func PlatformString() string {
	platform, _, version, err := host.PlatformInformation()
	if err != nil || platform == "" {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}
	if version == "" {
		return fmt.Sprintf("%s (%s)", platform, runtime.GOARCH)
	}
	return fmt.Sprintf("%s %s (%s)", platform, version, runtime.GOARCH)
}
