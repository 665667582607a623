package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir          = "output_directory"
	KeyPreferredQuality   = "preferred_quality"
	KeyPreferredFormat    = "preferred_format"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyOnboardingComplete = "onboarding_complete"
)

// Default values
const (
	DefaultPreferredQuality   = model.Tier1080p
	DefaultPreferredFormat    = model.DefaultFormat
	DefaultAutoRevealComplete = false
)

var allKeys = []string{
	KeyOutputDir,
	KeyPreferredQuality,
	KeyPreferredFormat,
	KeyAutoRevealComplete,
	KeyOnboardingComplete,
}

// Settings manages persisted user settings
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the configured output directory, or the
// platform default when none is saved. The default is not persisted.
func (s *Settings) GetOutputDirectory() string {
	if dir := s.app.Preferences().String(KeyOutputDir); dir != "" {
		return dir
	}
	dir, err := platform.DefaultOutputDir()
	if err != nil {
		return ""
	}
	return dir
}

// SetOutputDirectory saves the output directory. An empty value restores the
// platform default.
func (s *Settings) SetOutputDirectory(dir string) {
	if dir == "" {
		s.app.Preferences().RemoveValue(KeyOutputDir)
		return
	}
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetPreferredQuality returns the preferred tier
func (s *Settings) GetPreferredQuality() model.QualityTier {
	value := s.app.Preferences().String(KeyPreferredQuality)
	if value == "" {
		return DefaultPreferredQuality
	}
	tier, err := model.ParseQualityTier(value)
	if err != nil {
		return DefaultPreferredQuality
	}
	return tier
}

// SetPreferredQuality saves the preferred tier
func (s *Settings) SetPreferredQuality(tier model.QualityTier) {
	s.app.Preferences().SetString(KeyPreferredQuality, string(tier))
}

// GetPreferredFormat returns the preferred container
func (s *Settings) GetPreferredFormat() model.ContainerFormat {
	format := s.app.Preferences().String(KeyPreferredFormat)
	if format == "" {
		return DefaultPreferredFormat
	}
	return model.ParseContainerFormat(format)
}

// SetPreferredFormat saves the preferred container
func (s *Settings) SetPreferredFormat(format model.ContainerFormat) {
	s.app.Preferences().SetString(KeyPreferredFormat, format.Ext())
}

// GetAutoRevealOnComplete returns whether to reveal finished clips
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal finished clips
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// IsOnboardingComplete reports whether first-run setup has been done
func (s *Settings) IsOnboardingComplete() bool {
	return s.app.Preferences().Bool(KeyOnboardingComplete)
}

// SetOnboardingComplete marks first-run setup as done
func (s *Settings) SetOnboardingComplete() {
	s.app.Preferences().SetBool(KeyOnboardingComplete, true)
}

// Reset removes every saved setting
func (s *Settings) Reset() {
	for _, key := range allKeys {
		s.app.Preferences().RemoveValue(key)
	}
}
