package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names
const (
	EnvYTDLPPath   = "CLIPPER_YTDLP"
	EnvFFmpegPath  = "CLIPPER_FFMPEG"
	EnvFFprobePath = "CLIPPER_FFPROBE"
	EnvResourceDir = "CLIPPER_RESOURCE_DIR"
	EnvProfiles    = "CLIPPER_PROFILES"
	EnvPreviewDir  = "CLIPPER_PREVIEW_DIR"
	EnvLogLevel    = "CLIPPER_LOG_LEVEL"
)

// Env holds process-level configuration read from the environment
type Env struct {
	YTDLPPath    string // explicit yt-dlp executable, empty to resolve
	FFmpegPath   string // explicit ffmpeg executable, empty to resolve
	FFprobePath  string // explicit ffprobe executable, empty to resolve
	ResourceDir  string // directory holding binaries/ sidecars
	ProfilesPath string // YAML encoder profile override
	PreviewDir   string // where non-streamable previews are downloaded
	LogLevel     slog.Level
}

// LoadEnv reads the environment. Call godotenv.Load first to pick up a .env
// file.
func LoadEnv() Env {
	return Env{
		YTDLPPath:    getEnv(EnvYTDLPPath, ""),
		FFmpegPath:   getEnv(EnvFFmpegPath, ""),
		FFprobePath:  getEnv(EnvFFprobePath, ""),
		ResourceDir:  getEnv(EnvResourceDir, executableDir()),
		ProfilesPath: getEnv(EnvProfiles, ""),
		PreviewDir:   getEnv(EnvPreviewDir, os.TempDir()),
		LogLevel:     parseLevel(getEnv(EnvLogLevel, "info")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// executableDir is the directory of the running binary, where bundled
// sidecars are shipped
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
