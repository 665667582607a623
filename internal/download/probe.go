package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
	"github.com/ytget/yt-clipper/internal/quality"
)

// Probe constants
const (
	UnknownTitle        = "Unknown Title"
	PreviewNameTemplate = "clipme_preview_%(id)s.%(ext)s"
	HTTPPrefix          = "http"
)

// Hosts whose stream URLs can be previewed without a local copy
var streamableHosts = []string{"youtube.com", "youtu.be"}

var _ MetadataProber = (*Prober)(nil)

// Prober reads source metadata through ffprobe and yt-dlp
type Prober struct {
	ytdlpPath   string
	ffprobePath string
	previewDir  string
	logger      *slog.Logger
}

// NewProber creates a prober. When previewDir is set, sources that cannot be
// streamed directly are downloaded there so the preview plays from disk.
func NewProber(ytdlpPath, ffprobePath, previewDir string, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		ytdlpPath:   ytdlpPath,
		ffprobePath: ffprobePath,
		previewDir:  previewDir,
		logger:      logger,
	}
}

// Probe implements MetadataProber
func (p *Prober) Probe(ctx context.Context, source string) (*model.VideoMetadata, error) {
	if platform.IsLocalFile(source) {
		return p.probeLocal(ctx, source)
	}
	return p.probeRemote(ctx, source)
}

func (p *Prober) probeLocal(ctx context.Context, path string) (*model.VideoMetadata, error) {
	p.logger.Debug("probing local file", "path", path)

	out, err := runOutput(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		path,
	)
	if err != nil {
		return nil, err
	}
	return parseFFprobe(out, path)
}

func (p *Prober) probeRemote(ctx context.Context, url string) (*model.VideoMetadata, error) {
	downloadPreview := p.previewDir != "" && !isStreamable(url)

	var args []string
	if downloadPreview {
		args = []string{
			"--print-json",
			"--no-warnings",
			"-o", filepath.Join(p.previewDir, PreviewNameTemplate),
			"--force-overwrites",
			url,
		}
	} else {
		args = []string{"--dump-json", "--flat-playlist", "--no-warnings", url}
	}

	p.logger.Debug("probing remote source", "url", url, "download_preview", downloadPreview)

	out, err := runOutput(ctx, p.ytdlpPath, args...)
	if err != nil {
		return nil, err
	}

	meta, err := parseInfo(out, downloadPreview)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("detected max video height", "url", url, "height", meta.MaxHeight)
	return meta, nil
}

// runOutput runs a probe command and returns its stdout
func runOutput(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, &model.ExecutionError{
			Phase:    model.PhaseProbe,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(string(exitErr.Stderr)),
			Err:      err,
		}
	}
	return nil, &model.SpawnError{Phase: model.PhaseProbe, Path: path, Err: err}
}

func isStreamable(url string) bool {
	for _, host := range streamableHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// ffprobeOutput is the subset of ffprobe's JSON report we read
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

func parseFFprobe(data []byte, path string) (*model.VideoMetadata, error) {
	var report ffprobeOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration, _ := strconv.ParseFloat(report.Format.Duration, 64)

	height := 0
	if len(report.Streams) > 0 {
		height = report.Streams[0].Height
	}
	if height <= 0 {
		height = quality.DefaultProbedHeight
	}

	return &model.VideoMetadata{
		Title:      filepath.Base(path),
		Duration:   duration,
		MaxHeight:  height,
		Formats:    quality.OfferedTiers(height),
		PreviewURL: path,
	}, nil
}

// infoJSON is the subset of yt-dlp's info dict we read
type infoJSON struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Height   int     `json:"height"`
	URL      string  `json:"url"`
	Filename string  `json:"filename"`
	Formats  []struct {
		Height int    `json:"height"`
		URL    string `json:"url"`
	} `json:"formats"`
}

// parseInfo reads the first info object. Playlists print one object per
// line and only the first entry is used.
func parseInfo(data []byte, downloaded bool) (*model.VideoMetadata, error) {
	var info infoJSON
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	title := info.Title
	if title == "" {
		title = UnknownTitle
	}

	maxHeight := 0
	for _, f := range info.Formats {
		if f.Height > maxHeight {
			maxHeight = f.Height
		}
	}
	if maxHeight == 0 {
		maxHeight = info.Height
	}
	if maxHeight <= 0 {
		maxHeight = quality.DefaultProbedHeight
	}

	return &model.VideoMetadata{
		Title:      title,
		Duration:   info.Duration,
		MaxHeight:  maxHeight,
		Formats:    quality.OfferedTiers(maxHeight),
		PreviewURL: previewURL(info, downloaded),
	}, nil
}

// previewURL prefers the downloaded preview file, then the last http format
// URL, then the top-level url.
func previewURL(info infoJSON, downloaded bool) string {
	if downloaded && info.Filename != "" {
		return info.Filename
	}
	for i := len(info.Formats) - 1; i >= 0; i-- {
		if strings.HasPrefix(info.Formats[i].URL, HTTPPrefix) {
			return info.Formats[i].URL
		}
	}
	return info.URL
}
