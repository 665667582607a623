package model

import (
	"fmt"
	"strings"
)

// QualityTier is a named target quality level controlling both source
// selection and encoder output.
type QualityTier string

const (
	TierBest      QualityTier = "Best"
	Tier8K        QualityTier = "8K"
	Tier4K        QualityTier = "4K"
	Tier1440p     QualityTier = "1440p"
	Tier1080p     QualityTier = "1080p"
	Tier720p      QualityTier = "720p"
	Tier480p      QualityTier = "480p"
	TierAudioOnly QualityTier = "Audio Only"
)

// VideoTiers lists the sized tiers in descending target height.
var VideoTiers = []QualityTier{Tier8K, Tier4K, Tier1440p, Tier1080p, Tier720p, Tier480p}

var tierHeights = map[QualityTier]int{
	Tier8K:    4320,
	Tier4K:    2160,
	Tier1440p: 1440,
	Tier1080p: 1080,
	Tier720p:  720,
	Tier480p:  480,
}

// String returns the display label of the tier
func (q QualityTier) String() string {
	return string(q)
}

// Height returns the target height of a sized tier, 0 for Best and AudioOnly
func (q QualityTier) Height() int {
	return tierHeights[q]
}

// IsAudioOnly reports whether the tier drops the video stream
func (q QualityTier) IsAudioOnly() bool {
	return q == TierAudioOnly
}

// ParseQualityTier accepts a tier label case-insensitively. "audio" and
// "audioonly" are accepted as aliases for the audio-only tier.
func ParseQualityTier(s string) (QualityTier, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "", "best":
		return TierBest, nil
	case "audio", "audio only", "audioonly", "audio_only":
		return TierAudioOnly, nil
	}
	for _, tier := range VideoTiers {
		if strings.ToLower(string(tier)) == norm {
			return tier, nil
		}
	}
	return "", fmt.Errorf("unknown quality tier: %q", s)
}

// ContainerFormat is the requested output container. It determines the
// output extension and the encoder codec profile.
type ContainerFormat string

const (
	FormatMP4  ContainerFormat = "mp4"
	FormatMKV  ContainerFormat = "mkv"
	FormatMOV  ContainerFormat = "mov"
	FormatWebM ContainerFormat = "webm"
	FormatAVI  ContainerFormat = "avi"

	DefaultFormat = FormatMP4
)

// ParseContainerFormat normalizes a user supplied format. Unknown formats are
// passed through lowercased so the downloader can decide. The value becomes a
// file extension, so anything other than ASCII letters and digits selects the
// default container.
func ParseContainerFormat(s string) ContainerFormat {
	norm := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if norm == "" || strings.IndexFunc(norm, notExtRune) >= 0 {
		return DefaultFormat
	}
	return ContainerFormat(norm)
}

func notExtRune(r rune) bool {
	return (r < 'a' || r > 'z') && (r < '0' || r > '9')
}

// Ext returns the file extension without a leading dot
func (f ContainerFormat) Ext() string {
	if f == "" {
		return string(DefaultFormat)
	}
	return string(f)
}
