package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Directory names
const (
	DownloadsDirName = "Downloads"
	OutputSubfolder  = "Clipme"
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsDirName), nil
}

// DefaultOutputDir returns the directory clips are written to when the user
// has not chosen one: <Downloads>/Clipme
func DefaultOutputDir() (string, error) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(downloadsDir, OutputSubfolder), nil
}

// IsLocalFile reports whether source names an existing regular file
func IsLocalFile(source string) bool {
	info, err := os.Stat(source)
	return err == nil && info.Mode().IsRegular()
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	if !IsLocalFile(filePath) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cmd, err := revealCommand(runtime.GOOS, absPath)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// revealCommand builds the file manager invocation for goos. File selection
// is not standardized on Linux, so the parent directory is opened there.
func revealCommand(goos, absPath string) (*exec.Cmd, error) {
	switch goos {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath), nil
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath), nil
	case OSLinux:
		return exec.Command(XDGOpenCommand, filepath.Dir(absPath)), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
