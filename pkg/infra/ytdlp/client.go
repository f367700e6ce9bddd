package ytdlp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

const (
	outputTemplate = "%(title)s.%(ext)s"
	defaultTitle   = "video"
)

// Download is what a yt-dlp run reports about the downloaded video
type Download struct {
	Title    string
	Filename string
}

// Runner executes yt-dlp. It allows replacing the binary in tests.
type Runner interface {
	Run(ctx context.Context, opts *model.ExtractOptions, videoURL string) (*Download, error)
}

// ExecRunner runs yt-dlp through go-ytdlp
type ExecRunner struct {
	Executable string // empty uses yt-dlp from PATH or the go-ytdlp cache
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, opts *model.ExtractOptions, videoURL string) (*Download, error) {
	cmd := ytdlp.New().
		NoPlaylist().
		NoProgress().
		PrintJSON().
		Format(opts.Format).
		MergeOutputFormat("mp4").
		Output(opts.OutputTemplate)
	if opts.CookieFile != "" {
		cmd = cmd.Cookies(opts.CookieFile)
	}
	if r.Executable != "" {
		cmd = cmd.SetExecutable(r.Executable)
	}

	result, err := cmd.Run(ctx, videoURL)
	if err != nil {
		return nil, goerr.Wrap(err, "yt-dlp failed")
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read yt-dlp info")
	}
	if len(infos) == 0 {
		return nil, goerr.New("yt-dlp reported no video")
	}

	dl := &Download{}
	if infos[0].Title != nil {
		dl.Title = *infos[0].Title
	}
	if infos[0].Filename != nil {
		dl.Filename = *infos[0].Filename
	}
	return dl, nil
}

// Install makes sure a yt-dlp binary is available and returns its path
func Install(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to install yt-dlp")
	}
	return resolved.Executable, nil
}

type client struct {
	runner Runner
	format string
}

// Option is a functional option for the extractor
type Option func(*client)

// WithRunner sets the yt-dlp runner
func WithRunner(r Runner) Option {
	return func(c *client) {
		c.runner = r
	}
}

// WithExecutable runs the yt-dlp binary at path
func WithExecutable(path string) Option {
	return func(c *client) {
		c.runner = &ExecRunner{Executable: path}
	}
}

// WithFormat overrides the format selector
func WithFormat(format string) Option {
	return func(c *client) {
		c.format = format
	}
}

// NewClient creates an Extractor backed by yt-dlp
func NewClient(opts ...Option) interfaces.Extractor {
	c := &client{
		runner: &ExecRunner{},
		format: model.DefaultFormat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract downloads videoURL into dir. The result is always stored at
// <dir>/<sanitized title>.mp4.
func (c *client) Extract(ctx context.Context, videoURL, cookiePath, dir string) (*model.MediaArtifact, error) {
	logger := ctxlog.From(ctx)

	opts := &model.ExtractOptions{
		OutputTemplate: filepath.Join(dir, outputTemplate),
		Format:         c.format,
		CookieFile:     cookiePath,
	}

	dl, err := c.runner.Run(ctx, opts, videoURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download video",
			goerr.V("video_url", videoURL),
			goerr.T(types.ErrTagExtraction))
	}

	title := dl.Title
	if title == "" {
		title = defaultTitle
	}
	sanitized := model.SanitizeFilename(title)
	localPath := filepath.Join(dir, model.MediaFileName(title))

	// yt-dlp applies its own filename rules; move its output to the expected path
	if !exists(localPath) && dl.Filename != "" && dl.Filename != localPath &&
		filepath.Dir(filepath.Clean(dl.Filename)) == filepath.Clean(dir) && exists(dl.Filename) {
		if err := os.Rename(dl.Filename, localPath); err != nil {
			return nil, goerr.Wrap(err, "failed to move downloaded file",
				goerr.V("from", dl.Filename),
				goerr.V("to", localPath),
				goerr.T(types.ErrTagExtraction))
		}
		logger.Debug("Moved downloaded file", "from", dl.Filename, "to", localPath)
	}

	if !exists(localPath) {
		return nil, goerr.New("downloaded file not found",
			goerr.V("path", localPath),
			goerr.V("reported_filename", dl.Filename),
			goerr.T(types.ErrTagExtraction))
	}

	logger.Info("Video downloaded", "path", localPath, "title", title)

	return &model.MediaArtifact{
		LocalPath: localPath,
		Title:     sanitized,
	}, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
