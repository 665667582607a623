package encode

import (
	"runtime"
	"strconv"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/quality"
)

// FFmpeg flags
const (
	OverwriteFlag   = "-y"
	InputFlag       = "-i"
	SeekFlag        = "-ss"
	DurationFlag    = "-t"
	VideoFilterFlag = "-vf"
	NoVideoFlag     = "-vn"
)

// Builder renders ffmpeg argument lists from a profile table
type Builder struct {
	profiles Profiles
	goos     string
}

// NewBuilder creates a builder for the running platform
func NewBuilder(profiles Profiles) *Builder {
	return NewBuilderFor(profiles, runtime.GOOS)
}

// NewBuilderFor creates a builder that picks transcode profiles for goos
func NewBuilderFor(profiles Profiles, goos string) *Builder {
	return &Builder{profiles: profiles, goos: goos}
}

// LocalClipArgs cuts [start, start+duration) from src into output, scaling or
// dropping video as the selection asks.
func (b *Builder) LocalClipArgs(src string, start, duration float64, sel quality.Selection, format model.ContainerFormat, output string) []string {
	args := []string{
		OverwriteFlag,
		InputFlag, src,
		SeekFlag, formatSeconds(start),
		DurationFlag, formatSeconds(duration),
	}

	if sel.DropVideo {
		args = append(args, NoVideoFlag)
	} else {
		if sel.ScaleFilter != "" {
			args = append(args, VideoFilterFlag, sel.ScaleFilter)
		}
		args = append(args, b.profiles.ClipProfile(format).Args()...)
	}

	return append(args, output)
}

// TranscodeArgs re-encodes input into output with the platform profile
func (b *Builder) TranscodeArgs(input, output string) []string {
	args := []string{OverwriteFlag, InputFlag, input}
	args = append(args, b.profiles.TranscodeProfile(b.goos).Args()...)
	return append(args, output)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
