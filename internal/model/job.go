package model

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Partial-write and intermediate naming used by the downloader and transcoder
const (
	PartSuffix   = ".part"
	TempInfix    = ".temp"
	JobIDPrefix  = "clip-"
	ClipInfix    = "_clip_"
	DefaultTitle = "clip"
)

// ClipRequest describes one clip job submitted by the UI layer
type ClipRequest struct {
	Source  string          // remote URL or local file path
	Title   string          // used to build the output file name
	Start   float64         // seconds, >= 0
	End     float64         // seconds, > Start
	Quality QualityTier     // requested tier
	Format  ContainerFormat // requested container
	JobID   string          // routes progress events only
}

// Duration returns the length of the requested range in seconds
func (r ClipRequest) Duration() float64 {
	return r.End - r.Start
}

// Validate checks the time range invariants
func (r ClipRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("%w: source is empty", ErrInvalidRequest)
	}
	if !isFinite(r.Start) || !isFinite(r.End) {
		return fmt.Errorf("%w: start %v and end %v must be finite", ErrInvalidRequest, r.Start, r.End)
	}
	if r.Start < 0 {
		return fmt.Errorf("%w: start %.3f is negative", ErrInvalidRequest, r.Start)
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: end %.3f must be after start %.3f", ErrInvalidRequest, r.End, r.Start)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ProgressRecord is one progress event for a job. Records are not persisted.
type ProgressRecord struct {
	Percent    float64 `json:"percent"`    // 0 to 100
	Speed      string  `json:"speed"`      // human readable rate
	ETA        string  `json:"eta"`        // human readable ETA
	Downloaded string  `json:"downloaded"` // human readable downloaded amount
	Total      string  `json:"total"`      // human readable total amount
	JobID      string  `json:"id"`
}

// JobArtifacts is the set of files a job may leave on disk
type JobArtifacts struct {
	Output string // final output path
	Temp   string // intermediate path, only set when the job re-encodes
}

// IsZero reports whether no artifacts are recorded
func (a JobArtifacts) IsZero() bool {
	return a.Output == "" && a.Temp == ""
}

// TempPathFor returns the intermediate path for an output path:
// clip.mp4 -> clip.temp.mp4
func TempPathFor(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + TempInfix + ext
}

// VideoMetadata is the probe result consumed by the UI before a clip is requested
type VideoMetadata struct {
	Title      string        `json:"title"`
	Duration   float64       `json:"duration"`
	MaxHeight  int           `json:"max_height"`
	Formats    []QualityTier `json:"formats"`
	PreviewURL string        `json:"preview_url,omitempty"`
}

// NewJobID generates a job ID using UUID v7 so IDs sort chronologically
func NewJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}

// SanitizeTitle keeps letters, digits, '-', '_' and spaces and replaces
// everything else with '_'
func SanitizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '_' || r == ' ':
			return r
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return '_'
		}
	}, title)
}

// ClipFileName builds "<title>_clip_<unix seconds>.<ext>"
func ClipFileName(title string, format ContainerFormat, now time.Time) string {
	return fmt.Sprintf("%s%s%d.%s", SanitizeTitle(title), ClipInfix, now.Unix(), format.Ext())
}
