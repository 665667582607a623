package config

import (
	"log/slog"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvYTDLPPath, "/opt/bin/yt-dlp")
	t.Setenv(EnvFFmpegPath, "/opt/bin/ffmpeg")
	t.Setenv(EnvResourceDir, "/opt/clipper")
	t.Setenv(EnvProfiles, "/etc/clipper/profiles.yaml")
	t.Setenv(EnvPreviewDir, "/var/cache/clipper")
	t.Setenv(EnvLogLevel, "debug")

	env := LoadEnv()

	if env.YTDLPPath != "/opt/bin/yt-dlp" {
		t.Errorf("Unexpected yt-dlp path: %s", env.YTDLPPath)
	}
	if env.FFmpegPath != "/opt/bin/ffmpeg" {
		t.Errorf("Unexpected ffmpeg path: %s", env.FFmpegPath)
	}
	if env.ResourceDir != "/opt/clipper" {
		t.Errorf("Unexpected resource dir: %s", env.ResourceDir)
	}
	if env.ProfilesPath != "/etc/clipper/profiles.yaml" {
		t.Errorf("Unexpected profiles path: %s", env.ProfilesPath)
	}
	if env.PreviewDir != "/var/cache/clipper" {
		t.Errorf("Unexpected preview dir: %s", env.PreviewDir)
	}
	if env.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", env.LogLevel)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
