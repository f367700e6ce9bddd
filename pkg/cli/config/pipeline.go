package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/infra/cookie"
	"github.com/ytclip/ytclip/pkg/infra/ffmpeg"
	"github.com/ytclip/ytclip/pkg/infra/ytdlp"
)

// Pipeline holds clip pipeline configuration
type Pipeline struct {
	Bucket        string
	ScratchDir    string
	FFmpegPath    string
	YtdlpPath     string
	YtdlpInstall  bool
	Format        string
	CookieTimeout time.Duration
}

// Flags returns CLI flags for pipeline configuration
func (c *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket clips are uploaded to",
			Value:       model.DefaultBucket,
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("YTCLIP_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "scratch-dir",
			Usage:       "Directory for per-request temporary files",
			Value:       filepath.Join(os.TempDir(), "ytclip"),
			Destination: &c.ScratchDir,
			Sources:     cli.EnvVars("YTCLIP_SCRATCH_DIR"),
		},
		&cli.StringFlag{
			Name:        "ffmpeg-path",
			Usage:       "ffmpeg executable",
			Value:       "ffmpeg",
			Destination: &c.FFmpegPath,
			Sources:     cli.EnvVars("YTCLIP_FFMPEG_PATH"),
		},
		&cli.StringFlag{
			Name:        "ytdlp-path",
			Usage:       "yt-dlp executable (default: resolved by go-ytdlp)",
			Destination: &c.YtdlpPath,
			Sources:     cli.EnvVars("YTCLIP_YTDLP_PATH"),
		},
		&cli.BoolFlag{
			Name:        "ytdlp-install",
			Usage:       "Download yt-dlp at startup if it is not available",
			Destination: &c.YtdlpInstall,
			Sources:     cli.EnvVars("YTCLIP_YTDLP_INSTALL"),
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "yt-dlp format selector",
			Value:       model.DefaultFormat,
			Destination: &c.Format,
			Sources:     cli.EnvVars("YTCLIP_FORMAT"),
		},
		&cli.DurationFlag{
			Name:        "cookie-timeout",
			Usage:       "Timeout for downloading the cookie file",
			Value:       cookie.DefaultTimeout,
			Destination: &c.CookieTimeout,
			Sources:     cli.EnvVars("YTCLIP_COOKIE_TIMEOUT"),
		},
	}
}

// Config returns the settings shared by every request
func (c *Pipeline) Config() model.PipelineConfig {
	return model.PipelineConfig{
		Bucket:     c.Bucket,
		ScratchDir: c.ScratchDir,
	}
}

// Components builds the pipeline adapters. With YtdlpInstall set, yt-dlp is
// resolved (and downloaded if needed) before the extractor is created.
func (c *Pipeline) Components(ctx context.Context) (interfaces.CredentialFetcher, interfaces.Extractor, ffmpeg.Trimmer, error) {
	ytdlpPath := c.YtdlpPath
	if ytdlpPath == "" && c.YtdlpInstall {
		path, err := ytdlp.Install(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		ctxlog.From(ctx).Info("yt-dlp is ready", "path", path)
		ytdlpPath = path
	}

	extractorOpts := []ytdlp.Option{ytdlp.WithFormat(c.Format)}
	if ytdlpPath != "" {
		extractorOpts = append(extractorOpts, ytdlp.WithExecutable(ytdlpPath))
	}

	fetcher := cookie.NewClient(cookie.WithTimeout(c.CookieTimeout))
	extractor := ytdlp.NewClient(extractorOpts...)
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithFFmpegPath(c.FFmpegPath))

	return fetcher, extractor, trimmer, nil
}
