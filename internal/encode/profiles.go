package encode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-clipper/internal/model"
)

// Profile table keys
const (
	DefaultKey = "default"
	DarwinKey  = "darwin"
)

// Profile is one set of codec arguments
type Profile struct {
	VideoCodec string   `yaml:"video_codec"`
	VideoArgs  []string `yaml:"video_args,omitempty"`
	AudioCodec string   `yaml:"audio_codec"`
	AudioArgs  []string `yaml:"audio_args,omitempty"`
}

// Args renders the profile as ffmpeg codec flags
func (p Profile) Args() []string {
	var args []string
	if p.VideoCodec != "" {
		args = append(args, "-c:v", p.VideoCodec)
		args = append(args, p.VideoArgs...)
	}
	if p.AudioCodec != "" {
		args = append(args, "-c:a", p.AudioCodec)
		args = append(args, p.AudioArgs...)
	}
	return args
}

// IsZero reports whether the profile sets no codec
func (p Profile) IsZero() bool {
	return p.VideoCodec == "" && p.AudioCodec == ""
}

// Profiles holds the clip table keyed by container extension and the
// transcode table keyed by GOOS. Both fall back to their DefaultKey entry.
type Profiles struct {
	Clip      map[string]Profile `yaml:"clip"`
	Transcode map[string]Profile `yaml:"transcode"`
}

// DefaultProfiles returns the built-in codec table
func DefaultProfiles() Profiles {
	return Profiles{
		Clip: map[string]Profile{
			DefaultKey: {
				VideoCodec: "libx264",
				VideoArgs:  []string{"-preset", "fast", "-crf", "23"},
				AudioCodec: "aac",
				AudioArgs:  []string{"-b:a", "192k"},
			},
			model.FormatWebM.Ext(): {
				VideoCodec: "libvpx-vp9",
				VideoArgs:  []string{"-b:v", "0", "-crf", "30"},
				AudioCodec: "libopus",
			},
		},
		Transcode: map[string]Profile{
			DefaultKey: {
				VideoCodec: "libx265",
				VideoArgs:  []string{"-crf", "23", "-preset", "medium", "-tag:v", "hvc1"},
				AudioCodec: "aac",
			},
			DarwinKey: {
				VideoCodec: "hevc_videotoolbox",
				VideoArgs:  []string{"-tag:v", "hvc1", "-b:v", "12M"},
				AudioCodec: "aac",
			},
		},
	}
}

// ClipProfile returns the profile for clipping into format
func (p Profiles) ClipProfile(format model.ContainerFormat) Profile {
	return lookup(p.Clip, format.Ext())
}

// TranscodeProfile returns the high-efficiency profile for goos
func (p Profiles) TranscodeProfile(goos string) Profile {
	return lookup(p.Transcode, goos)
}

func lookup(table map[string]Profile, key string) Profile {
	if profile, ok := table[key]; ok {
		return profile
	}
	return table[DefaultKey]
}

// LoadProfiles reads a YAML profile file and merges it over the built-in
// table. Entries in the file replace built-in entries with the same key.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profiles, fmt.Errorf("failed to read encoder profiles: %w", err)
	}

	var override Profiles
	if err := yaml.Unmarshal(data, &override); err != nil {
		return profiles, fmt.Errorf("failed to parse encoder profiles %s: %w", path, err)
	}

	for key, profile := range override.Clip {
		if profile.IsZero() {
			return profiles, fmt.Errorf("clip profile %q sets no codec", key)
		}
		profiles.Clip[key] = profile
	}
	for key, profile := range override.Transcode {
		if profile.IsZero() {
			return profiles, fmt.Errorf("transcode profile %q sets no codec", key)
		}
		profiles.Transcode[key] = profile
	}
	return profiles, nil
}
