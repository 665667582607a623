package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"

	"github.com/ytget/yt-clipper/internal/config"
	"github.com/ytget/yt-clipper/internal/download"
	"github.com/ytget/yt-clipper/internal/encode"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/pipeline"
	"github.com/ytget/yt-clipper/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-clipper"
	AppName = "YT Clipper"
)

func main() {
	var (
		source    = flag.String("source", "", "remote URL or local file to clip")
		title     = flag.String("title", "", "title used for the output file name")
		start     = flag.Float64("start", 0, "clip start in seconds")
		end       = flag.Float64("end", 0, "clip end in seconds")
		tier      = flag.String("quality", "", "quality tier (Best, 8K, 4K, 1440p, 1080p, 720p, 480p, Audio Only)")
		format    = flag.String("format", "", "output container (mp4, mkv, mov, webm, avi)")
		jobID     = flag.String("id", "", "job id attached to progress records")
		outDir    = flag.String("out", "", "output directory for this run")
		saveDir   = flag.String("save-dir", "", "save the default output directory and exit")
		probe     = flag.Bool("probe", false, "print source metadata as JSON and exit")
		reveal    = flag.Bool("reveal", false, "reveal the clip in the file manager when done")
		showVer   = flag.Bool("version", false, "print version and exit")
		resetConf = flag.Bool("reset", false, "remove all saved settings and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("%s v%s\n", AppName, version)
		return
	}

	// A missing .env file is fine
	_ = godotenv.Load()
	env := config.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.LogLevel}))
	slog.SetDefault(logger)

	settings := config.NewSettings(app.NewWithID(AppID))

	switch {
	case *resetConf:
		settings.Reset()
		logger.Info("settings reset")
		return
	case *saveDir != "":
		settings.SetOutputDirectory(*saveDir)
		logger.Info("default output directory saved", "path", *saveDir)
		return
	}

	ytdlp := platform.ResolveExecutable(env.YTDLPPath, env.ResourceDir, platform.YTDLPName)
	ffmpeg := platform.ResolveExecutable(env.FFmpegPath, env.ResourceDir, platform.FFmpegName)
	ffprobe := platform.ResolveExecutable(env.FFprobePath, env.ResourceDir, platform.FFprobeName)

	profiles, err := encode.LoadProfiles(env.ProfilesPath)
	if err != nil {
		logger.Error("failed to load encoder profiles", "error", err)
		os.Exit(1)
	}

	ctrl := pipeline.NewController(pipeline.Options{
		YTDLPPath:  ytdlp,
		FFmpegPath: ffmpeg,
		Encoder:    encode.NewBuilder(profiles),
		Prober:     download.NewProber(ytdlp, ffprobe, env.PreviewDir, logger),
		Settings:   settings,
		Logger:     logger,
	})
	if *outDir != "" {
		ctrl.SetOutputDir(*outDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *source == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *probe {
		if err := printMetadata(ctx, ctrl, *source); err != nil {
			logger.Error("probe failed", "source", *source, "error", err)
			os.Exit(1)
		}
		return
	}

	req := model.ClipRequest{
		Source: *source,
		Title:  *title,
		Start:  *start,
		End:    *end,
		Format: settings.GetPreferredFormat(),
		JobID:  *jobID,
	}
	if *format != "" {
		req.Format = model.ParseContainerFormat(*format)
	}
	req.Quality = settings.GetPreferredQuality()
	if *tier != "" {
		q, err := model.ParseQualityTier(*tier)
		if err != nil {
			logger.Error("invalid quality", "error", err)
			os.Exit(2)
		}
		req.Quality = q
	}

	ctrl.SetProgressCallback(func(rec model.ProgressRecord) {
		fmt.Fprintf(os.Stderr, "\r%6.1f%%  %-18s %-12s", rec.Percent, rec.Speed, rec.ETA)
	})

	// Interrupt cancels through the controller so partial files are removed
	go func() {
		<-ctx.Done()
		if err := ctrl.CancelActiveJob(); err != nil {
			logger.Warn("cancel failed", "error", err)
		}
	}()

	path, err := ctrl.StartClip(context.Background(), req)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		if errors.Is(err, model.ErrCancelled) {
			logger.Info("clip cancelled")
			os.Exit(130)
		}
		logger.Error("clip failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(path)

	if *reveal || settings.GetAutoRevealOnComplete() {
		if err := platform.OpenFileInManager(path); err != nil {
			logger.Warn("failed to reveal clip", "path", path, "error", err)
		}
	}
}

func printMetadata(ctx context.Context, ctrl *pipeline.Controller, source string) error {
	meta, err := ctrl.Metadata(ctx, source)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
