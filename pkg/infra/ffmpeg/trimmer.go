package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// CommandRunner runs external commands. It allows mocking exec in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the os/exec implementation of CommandRunner
type ExecCommandRunner struct{}

// Run executes a command; stderr is attached to the returned error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "command failed", goerr.V("stderr", lastLines(stderr.String(), 20)))
	}
	return nil
}

// Output executes a command and returns its stdout
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type trimmer struct {
	ffmpegPath string
	runner     CommandRunner
}

// Option is a functional option for the trimmer
type Option func(*trimmer)

// WithFFmpegPath sets the ffmpeg executable
func WithFFmpegPath(path string) Option {
	return func(t *trimmer) {
		t.ffmpegPath = path
	}
}

// WithCommandRunner sets the command runner
func WithCommandRunner(runner CommandRunner) Option {
	return func(t *trimmer) {
		t.runner = runner
	}
}

// Trimmer is an ffmpeg backed interfaces.Trimmer that can also check its binary
type Trimmer interface {
	interfaces.Trimmer
	VerifyInstalled(ctx context.Context) error
}

// NewTrimmer creates an ffmpeg trimmer
func NewTrimmer(opts ...Option) Trimmer {
	t := &trimmer{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Args builds the ffmpeg arguments of a stream copy cut
func Args(input string, tr *model.TimeRange, output string) []string {
	args := []string{"-i", input, "-ss", strconv.Itoa(tr.StartSeconds)}
	if tr.EndSeconds != nil {
		args = append(args, "-to", strconv.Itoa(*tr.EndSeconds))
	}
	return append(args, "-c", "copy", output)
}

// Trim cuts input to tr and writes output without re-encoding
func (t *trimmer) Trim(ctx context.Context, input string, tr *model.TimeRange, output string) error {
	args := Args(input, tr, output)
	ctxlog.From(ctx).Info("Trimming video",
		"command", t.ffmpegPath+" "+strings.Join(args, " "),
	)

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return goerr.Wrap(err, "ffmpeg trim failed",
			goerr.V("input", input),
			goerr.V("output", output),
			goerr.T(types.ErrTagTrim))
	}
	return nil
}

// VerifyInstalled checks that ffmpeg can be executed
func (t *trimmer) VerifyInstalled(ctx context.Context) error {
	if _, err := t.runner.Output(ctx, t.ffmpegPath, "-version"); err != nil {
		return goerr.Wrap(err, "ffmpeg not found or not executable", goerr.V("path", t.ffmpegPath))
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
