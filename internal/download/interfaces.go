package download

import (
	"context"

	"github.com/ytget/yt-clipper/internal/model"
)

// MetadataProber defines the interface for the metadata probe.
type MetadataProber interface {
	// Probe returns the title, duration, offered tiers and preview location
	// of a remote URL or local file.
	Probe(ctx context.Context, source string) (*model.VideoMetadata, error)
}
