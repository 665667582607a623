package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytget/yt-clipper/internal/cleanup"
	"github.com/ytget/yt-clipper/internal/download"
	"github.com/ytget/yt-clipper/internal/encode"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
	"github.com/ytget/yt-clipper/internal/process"
	"github.com/ytget/yt-clipper/internal/progress"
	"github.com/ytget/yt-clipper/internal/quality"
)

// Progress labels
const (
	LabelProcessing = "Processing"
	LabelStarting   = "Starting"
	LabelClipping   = "Clipping/Encoding"
	LabelComplete   = "Complete"
	LabelDone       = "Done"
	LabelEncoding   = "Encoding"
	LabelTranscode  = "Transcoding"
	LabelFinishedAt = "00:00"
)

// OutputDirSource supplies the persisted output directory
type OutputDirSource interface {
	GetOutputDirectory() string
}

// Options configures a Controller
type Options struct {
	YTDLPPath  string
	FFmpegPath string

	// Encoder builds ffmpeg arguments. Defaults to the built-in profiles.
	Encoder *encode.Builder

	// Prober backs Metadata. Optional.
	Prober download.MetadataProber

	// Settings supplies the saved output directory. Optional.
	Settings OutputDirSource

	Logger *slog.Logger
}

// Controller runs one clip job at a time
type Controller struct {
	ytdlpPath  string
	ffmpegPath string
	encoder    *encode.Builder
	prober     download.MetadataProber
	settings   OutputDirSource
	logger     *slog.Logger

	slot   *process.Slot
	runner *process.Runner
	now    func() time.Time

	callbackMu sync.RWMutex
	onProgress ProgressFunc
}

// NewController creates an idle controller
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	encoder := opts.Encoder
	if encoder == nil {
		encoder = encode.NewBuilder(encode.DefaultProfiles())
	}

	slot := process.NewSlot()
	return &Controller{
		ytdlpPath:  opts.YTDLPPath,
		ffmpegPath: opts.FFmpegPath,
		encoder:    encoder,
		prober:     opts.Prober,
		settings:   opts.Settings,
		logger:     logger,
		slot:       slot,
		runner:     process.NewRunner(slot, logger),
		now:        time.Now,
	}
}

// SetProgressCallback sets the function receiving progress records
func (c *Controller) SetProgressCallback(fn ProgressFunc) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.onProgress = fn
}

func (c *Controller) progressCallback() ProgressFunc {
	c.callbackMu.RLock()
	defer c.callbackMu.RUnlock()
	return c.onProgress
}

// State returns the pipeline state
func (c *Controller) State() model.PipelineState {
	return c.slot.State()
}

// SetOutputDir overrides the output directory for subsequent jobs. An empty
// value removes the override.
func (c *Controller) SetOutputDir(dir string) {
	c.slot.SetOutputDir(dir)
}

// OutputDir returns the directory the next job writes to: the override, then
// the saved setting, then <Downloads>/Clipme.
func (c *Controller) OutputDir() (string, error) {
	if dir := c.slot.OutputDir(); dir != "" {
		return dir, nil
	}
	if c.settings != nil {
		if dir := c.settings.GetOutputDirectory(); dir != "" {
			return dir, nil
		}
	}
	return platform.DefaultOutputDir()
}

// ResolveQualities returns the tiers to offer for a probed source height
func (c *Controller) ResolveQualities(probedHeight int) []model.QualityTier {
	return quality.OfferedTiers(probedHeight)
}

// Metadata probes a remote URL or local file
func (c *Controller) Metadata(ctx context.Context, source string) (*model.VideoMetadata, error) {
	if c.prober == nil {
		return nil, errors.New("metadata probe is not configured")
	}
	return c.prober.Probe(ctx, source)
}

// job is the per-request working set
type job struct {
	req       model.ClipRequest
	sel       quality.Selection
	format    model.ContainerFormat
	artifacts model.JobArtifacts
	emit      *emitter
}

// StartClip runs a clip job to completion and returns the output path.
// Only one job may run at a time; a second call fails with
// model.ErrStateConflict. A cancelled job returns model.ErrCancelled.
func (c *Controller) StartClip(ctx context.Context, req model.ClipRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if req.JobID == "" {
		req.JobID = model.NewJobID()
	}

	if err := c.slot.Begin(req.JobID); err != nil {
		return "", err
	}

	j := &job{
		req:    req,
		sel:    quality.Resolve(req.Quality),
		format: model.ParseContainerFormat(string(req.Format)),
		emit:   newEmitter(req.JobID, c.progressCallback),
	}

	log := c.logger.With("job_id", req.JobID)
	log.Info("clip job started",
		"source", req.Source,
		"start", req.Start,
		"end", req.End,
		"quality", j.sel.Tier,
		"format", j.format,
	)

	err := c.run(ctx, j, log)
	if err == nil {
		j.emit.send(model.ProgressRecord{
			Percent:    100,
			Speed:      LabelDone,
			ETA:        LabelFinishedAt,
			Downloaded: progress.FormatPercent(100),
		})
	}
	j.emit.close()

	switch {
	case c.slot.Cancelled():
		// Children of a killed downloader may have kept writing
		cleanup.Remove(j.artifacts)
		c.slot.Finish(model.StateCancelled)
		log.Info("clip job cancelled")
		return "", model.ErrCancelled
	case err != nil:
		c.slot.Finish(model.StateFailed)
		log.Error("clip job failed", "error", err)
		return "", err
	}

	c.slot.Finish(model.StateSucceeded)
	log.Info("clip job finished", "path", j.artifacts.Output)
	return j.artifacts.Output, nil
}

func (c *Controller) run(ctx context.Context, j *job, log *slog.Logger) error {
	dir, err := c.OutputDir()
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	j.artifacts.Output = filepath.Join(dir, model.ClipFileName(j.req.Title, j.format, c.now()))

	if platform.IsLocalFile(j.req.Source) {
		c.slot.SetArtifacts(j.artifacts)
		return c.runLocal(ctx, j, log)
	}

	if j.sel.NeedsTranscode {
		j.artifacts.Temp = model.TempPathFor(j.artifacts.Output)
	}
	c.slot.SetArtifacts(j.artifacts)
	return c.runRemote(ctx, j, log)
}

// runLocal cuts and encodes a local file in a single ffmpeg pass
func (c *Controller) runLocal(ctx context.Context, j *job, log *slog.Logger) error {
	log.Debug("local clip", "output", j.artifacts.Output)

	j.emit.send(model.ProgressRecord{
		Percent:    0,
		Speed:      LabelProcessing,
		ETA:        LabelStarting,
		Downloaded: progress.FormatPercent(0),
	})

	duration := j.req.Duration()
	return c.runner.Run(ctx, process.Invocation{
		Phase: model.PhaseEncode,
		Path:  c.ffmpegPath,
		Args:  c.encoder.LocalClipArgs(j.req.Source, j.req.Start, duration, j.sel, j.format, j.artifacts.Output),
		OnStderr: func(line string) {
			if rec, ok := progress.ParseEncoder(line, duration); ok {
				rec.Speed = LabelClipping
				j.emit.send(rec)
			}
		},
	})
}

// runRemote fetches the section and, for high tiers, re-encodes it
func (c *Controller) runRemote(ctx context.Context, j *job, log *slog.Logger) error {
	phases := 1
	if j.sel.NeedsTranscode {
		phases = 2
	}
	agg := progress.NewAggregator(phases)
	duration := j.req.Duration()

	fetchPath := j.artifacts.Output
	if j.sel.NeedsTranscode {
		fetchPath = j.artifacts.Temp
	}
	log.Debug("remote clip", "phases", phases, "fetch_path", fetchPath, "output", j.artifacts.Output)

	err := c.runner.Run(ctx, process.Invocation{
		Phase: model.PhaseFetch,
		Path:  c.ytdlpPath,
		Args:  download.FetchArgs(j.req.Source, j.req.Start, j.req.End, j.sel, j.format, fetchPath),
		OnStdout: func(line string) {
			if rec, ok := progress.ParseStructured(line); ok {
				rec.Percent = agg.Scale(1, rec.Percent)
				j.emit.send(rec)
			}
		},
		OnStderr: func(line string) {
			if !progress.IsEncoderStatus(line) {
				return
			}
			if rec, ok := progress.ParseEncoder(line, duration); ok {
				rec.Percent = agg.Scale(1, rec.Percent)
				j.emit.send(rec)
			}
		},
	})
	if err != nil {
		return err
	}

	j.emit.send(model.ProgressRecord{
		Percent:    agg.Boundary(1),
		Speed:      LabelComplete,
		ETA:        LabelDone,
		Downloaded: progress.FormatPercent(100),
	})

	if !j.sel.NeedsTranscode {
		return nil
	}

	if !c.slot.Transition(model.StatePhase1Done) || !c.slot.Transition(model.StatePhase2Running) {
		return model.ErrCancelled
	}
	return c.transcode(ctx, j, agg, log)
}

// transcode re-encodes the fetched intermediate into the final output. The
// intermediate is removed whatever the outcome.
func (c *Controller) transcode(ctx context.Context, j *job, agg progress.Aggregator, log *slog.Logger) error {
	defer func() {
		err := os.Remove(j.artifacts.Temp)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("failed to remove intermediate file", "path", j.artifacts.Temp, "error", err)
		}
	}()

	boundary := agg.Boundary(1)
	j.emit.send(model.ProgressRecord{
		Percent:    boundary,
		Speed:      LabelEncoding,
		ETA:        LabelTranscode,
		Downloaded: progress.FormatPercent(boundary),
	})

	duration := j.req.Duration()
	return c.runner.Run(ctx, process.Invocation{
		Phase: model.PhaseEncode,
		Path:  c.ffmpegPath,
		Args:  c.encoder.TranscodeArgs(j.artifacts.Temp, j.artifacts.Output),
		OnStderr: func(line string) {
			if rec, ok := progress.ParseEncoder(line, duration); ok {
				rec.Percent = agg.Scale(2, rec.Percent)
				rec.Speed = LabelEncoding
				j.emit.send(rec)
			}
		},
	})
}

// CancelActiveJob stops the running process and removes the job's files.
// It is safe to call at any time; with nothing to cancel it does nothing.
func (c *Controller) CancelActiveJob() error {
	proc, artifacts := c.slot.Cancel()

	var killErr error
	if proc != nil {
		c.logger.Info("stopping clip process", "pid", proc.Pid)
		if err := platform.KillProcess(proc); err != nil {
			killErr = fmt.Errorf("failed to stop clip process: %w", err)
		}
	}

	if removed := cleanup.Remove(artifacts); len(removed) > 0 {
		c.logger.Info("removed clip files", "paths", removed)
	}
	return killErr
}
