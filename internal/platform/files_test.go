package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "out")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != DownloadsDirName {
		t.Errorf("Expected directory to end with %q, got: %s", DownloadsDirName, downloadsDir)
	}
}

func TestDefaultOutputDir(t *testing.T) {
	dir, err := DefaultOutputDir()
	if err != nil {
		t.Fatalf("Failed to get default output directory: %v", err)
	}

	if filepath.Base(dir) != OutputSubfolder {
		t.Errorf("Expected directory to end with %q, got: %s", OutputSubfolder, dir)
	}
	if filepath.Base(filepath.Dir(dir)) != DownloadsDirName {
		t.Errorf("Expected parent to be %q, got: %s", DownloadsDirName, dir)
	}
}

func TestIsLocalFile(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "clip.mp4")
	if err := os.WriteFile(file, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name     string
		source   string
		expected bool
	}{
		{"should detect existing file", file, true},
		{"should reject directories", tempDir, false},
		{"should reject missing files", filepath.Join(tempDir, "missing.mp4"), false},
		{"should reject URLs", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLocalFile(tt.source); got != tt.expected {
				t.Errorf("IsLocalFile(%q) = %v, expected %v", tt.source, got, tt.expected)
			}
		})
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.mp4")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestRevealCommand(t *testing.T) {
	tests := []struct {
		goos     string
		expected []string
		wantErr  bool
	}{
		{OSDarwin, []string{OpenCommand, MacOSSelectFlag, "/out/clip.mp4"}, false},
		{OSWindows, []string{ExplorerCommand, WindowsSelectParam, "/out/clip.mp4"}, false},
		{OSLinux, []string{XDGOpenCommand, "/out"}, false},
		{"plan9", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := revealCommand(tt.goos, "/out/clip.mp4")
			if (err != nil) != tt.wantErr {
				t.Fatalf("revealCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if filepath.Base(cmd.Args[0]) != tt.expected[0] {
				t.Errorf("command = %s, expected %s", cmd.Args[0], tt.expected[0])
			}
			if strings.Join(cmd.Args[1:], " ") != strings.Join(tt.expected[1:], " ") {
				t.Errorf("args = %v, expected %v", cmd.Args[1:], tt.expected[1:])
			}
		})
	}
}

func TestKillProcess(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("uses a POSIX sleep binary")
	}

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep not available: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := KillProcess(cmd.Process); err != nil {
		t.Fatalf("KillProcess() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process was not terminated")
	}

	// Reaped processes are never signalled again
	if err := KillProcess(cmd.Process); err != nil {
		t.Errorf("KillProcess() after exit error = %v", err)
	}
}

func TestKillProcess_Nil(t *testing.T) {
	if err := KillProcess(nil); err == nil {
		t.Error("Expected error for nil process")
	}
}
