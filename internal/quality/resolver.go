// Package quality maps quality tiers to downloader format selectors and
// encoder filter chains.
package quality

import (
	"fmt"

	"github.com/ytget/yt-clipper/internal/model"
)

// DefaultProbedHeight is assumed when the source height is unknown
const DefaultProbedHeight = 1080

// Format selector building blocks
const (
	SelectorBest      = "bestvideo+bestaudio/best"
	SelectorAudioOnly = "bestaudio/best"
	ScaleFilterFormat = "scale=-2:%d"
)

// Selection is the concrete source selection and filter chain for a tier
type Selection struct {
	Tier model.QualityTier

	// Format is the downloader's -f expression
	Format string

	// NeedsTranscode is true when the fetched stream must be re-encoded
	// into a widely compatible codec before delivery
	NeedsTranscode bool

	// ScaleFilter is the encoder -vf value for local clips, empty for Best
	ScaleFilter string

	// DropVideo is true when the local clip keeps audio only
	DropVideo bool
}

// OfferedTiers returns the tiers to offer for a probed maximum height. Best is
// always first and AudioOnly always last; thresholds are inclusive.
func OfferedTiers(probedHeight int) []model.QualityTier {
	if probedHeight <= 0 {
		probedHeight = DefaultProbedHeight
	}

	tiers := []model.QualityTier{model.TierBest}
	for _, tier := range model.VideoTiers {
		if probedHeight >= tier.Height() {
			tiers = append(tiers, tier)
		}
	}
	return append(tiers, model.TierAudioOnly)
}

// Resolve returns the selection for a tier. Unknown tiers resolve like Best.
func Resolve(tier model.QualityTier) Selection {
	if tier.Height() == 0 && !tier.IsAudioOnly() {
		tier = model.TierBest
	}
	sel := Selection{Tier: tier}

	switch tier {
	case model.Tier8K:
		sel.Format = "bestvideo[height>=4320]+bestaudio/bestvideo[height>=2160]+bestaudio/best"
	case model.Tier4K:
		sel.Format = "bestvideo[height=2160]+bestaudio/bestvideo[height>=2160]+bestaudio/best"
	case model.Tier1440p:
		sel.Format = "bestvideo[height=1440]+bestaudio/bestvideo[height<=1440]+bestaudio/best"
	case model.Tier1080p, model.Tier720p, model.Tier480p:
		sel.Format = compatibleSelector(tier.Height())
	case model.TierAudioOnly:
		sel.Format = SelectorAudioOnly
		sel.DropVideo = true
	default:
		sel.Format = SelectorBest
	}

	sel.NeedsTranscode = NeedsTranscode(tier)

	if h := tier.Height(); h > 0 {
		sel.ScaleFilter = fmt.Sprintf(ScaleFilterFormat, h)
	}

	return sel
}

// NeedsTranscode reports whether a remote fetch at this tier is followed by a
// re-encode. Streams above 1080p are rarely offered as AVC, so those tiers
// fetch any codec and convert afterwards.
func NeedsTranscode(tier model.QualityTier) bool {
	switch tier {
	case model.TierBest, model.Tier8K, model.Tier4K, model.Tier1440p:
		return true
	}
	return false
}

// compatibleSelector prefers an exact-height AVC stream with m4a audio, then
// any codec at that height, then the best single file no taller than height.
func compatibleSelector(height int) string {
	return fmt.Sprintf(
		"bestvideo[height=%[1]d][vcodec^=avc]+bestaudio[ext=m4a]/bestvideo[height=%[1]d]+bestaudio/best[height<=%[1]d]",
		height,
	)
}
