package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/yt-clipper/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestOutputDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Default is not persisted
	if settings.GetOutputDirectory() == "" {
		t.Error("Output directory should fall back to the platform default")
	}
	if app.Preferences().String(KeyOutputDir) != "" {
		t.Error("Default output directory should not be saved")
	}

	customDir := "/custom/clips"
	settings.SetOutputDirectory(customDir)
	if got := settings.GetOutputDirectory(); got != customDir {
		t.Errorf("Expected output directory %s, got %s", customDir, got)
	}

	settings.SetOutputDirectory("")
	if app.Preferences().String(KeyOutputDir) != "" {
		t.Error("Empty value should clear the saved directory")
	}
}

func TestPreferredQuality(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetPreferredQuality(); got != DefaultPreferredQuality {
		t.Errorf("Expected default quality %s, got %s", DefaultPreferredQuality, got)
	}

	settings.SetPreferredQuality(model.Tier4K)
	if got := settings.GetPreferredQuality(); got != model.Tier4K {
		t.Errorf("Expected 4K, got %s", got)
	}

	app.Preferences().SetString(KeyPreferredQuality, "potato")
	if got := settings.GetPreferredQuality(); got != DefaultPreferredQuality {
		t.Errorf("Expected unknown value to fall back to %s, got %s", DefaultPreferredQuality, got)
	}
}

func TestPreferredFormat(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetPreferredFormat(); got != model.FormatMP4 {
		t.Errorf("Expected default format mp4, got %s", got)
	}

	settings.SetPreferredFormat(model.FormatWebM)
	if got := settings.GetPreferredFormat(); got != model.FormatWebM {
		t.Errorf("Expected webm, got %s", got)
	}

	app.Preferences().SetString(KeyPreferredFormat, "MKV")
	if got := settings.GetPreferredFormat(); got != model.FormatMKV {
		t.Errorf("Expected stored value to be normalized to mkv, got %s", got)
	}
}

func TestAutoRevealOnComplete(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Errorf("Expected default auto reveal %v", DefaultAutoRevealComplete)
	}

	settings.SetAutoRevealOnComplete(true)
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Expected auto reveal to be enabled")
	}
}

func TestOnboardingAndReset(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.IsOnboardingComplete() {
		t.Error("Expected onboarding to be pending on a fresh install")
	}

	settings.SetOnboardingComplete()
	settings.SetOutputDirectory("/custom/clips")
	settings.SetPreferredFormat(model.FormatMOV)

	if !settings.IsOnboardingComplete() {
		t.Error("Expected onboarding to be complete")
	}

	settings.Reset()

	if settings.IsOnboardingComplete() {
		t.Error("Expected reset to clear onboarding")
	}
	if settings.GetPreferredFormat() != model.FormatMP4 {
		t.Error("Expected reset to restore the default format")
	}
	if app.Preferences().String(KeyOutputDir) != "" {
		t.Error("Expected reset to clear the output directory")
	}
}
