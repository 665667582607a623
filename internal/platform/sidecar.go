package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Executable names
const (
	YTDLPName   = "yt-dlp"
	FFmpegName  = "ffmpeg"
	FFprobeName = "ffprobe"

	BinariesDir      = "binaries"
	WindowsExeSuffix = ".exe"
)

// Bundled executables are named <name>-<target triple><ext>
var targetTriples = map[string]string{
	"darwin/arm64":  "aarch64-apple-darwin",
	"darwin/amd64":  "x86_64-apple-darwin",
	"windows/amd64": "x86_64-pc-windows-msvc",
	"linux/amd64":   "x86_64-unknown-linux-gnu",
	"linux/arm64":   "aarch64-unknown-linux-gnu",
}

// TargetTriple returns the target triple for a GOOS/GOARCH pair
func TargetTriple(goos, goarch string) (string, bool) {
	triple, ok := targetTriples[goos+"/"+goarch]
	return triple, ok
}

// ExeExtension returns the executable suffix for goos
func ExeExtension(goos string) string {
	if goos == OSWindows {
		return WindowsExeSuffix
	}
	return ""
}

// SidecarPath returns the bundled executable path for name under resourceDir
func SidecarPath(resourceDir, name, goos, goarch string) (string, error) {
	triple, ok := TargetTriple(goos, goarch)
	if !ok {
		return "", fmt.Errorf("unsupported platform: %s/%s", goos, goarch)
	}
	binary := fmt.Sprintf("%s-%s%s", name, triple, ExeExtension(goos))
	return filepath.Join(resourceDir, BinariesDir, binary), nil
}

// ResolveExecutable picks the executable to run for name: an explicit
// override wins, then a bundled sidecar under resourceDir, then PATH. When
// nothing is found the bare name is returned and spawning reports the error.
func ResolveExecutable(override, resourceDir, name string) string {
	if override != "" {
		return override
	}

	if resourceDir != "" {
		if path, err := SidecarPath(resourceDir, name, runtime.GOOS, runtime.GOARCH); err == nil && IsLocalFile(path) {
			return path
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}
