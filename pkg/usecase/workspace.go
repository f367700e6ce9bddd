package usecase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Workspace is the scratch directory of a single request. Every artifact the
// request creates is tracked and removed by Cleanup, whatever the outcome.
type Workspace struct {
	dir     string
	files   []string
	cleaned bool
}

// NewWorkspace creates a uniquely named subdirectory of root
func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create scratch root", goerr.V("root", root))
	}

	dir := filepath.Join(root, uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create scratch directory", goerr.V("dir", dir))
	}

	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// Track registers path for removal and returns it
func (w *Workspace) Track(path string) string {
	w.files = append(w.files, path)
	return path
}

// Cleanup removes tracked files, then the directory with anything left in it.
// Missing files are not an error and no failure is propagated. Only the first
// call has an effect.
func (w *Workspace) Cleanup(ctx context.Context) {
	if w.cleaned {
		return
	}
	w.cleaned = true
	logger := ctxlog.From(ctx)

	for _, path := range w.files {
		err := os.Remove(path)
		switch {
		case err == nil:
			logger.Info("Cleaned up local file", "path", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("Failed to remove local file", "path", path, "error", err)
		}
	}

	if err := os.RemoveAll(w.dir); err != nil {
		logger.Warn("Failed to clean up scratch directory", "dir", w.dir, "error", err)
	} else {
		logger.Debug("Cleaned up scratch directory", "dir", w.dir)
	}
}

// SweepScratch removes request directories under root that are older than
// maxAge. They are left behind only when a process died mid-request.
func SweepScratch(ctx context.Context, root string, maxAge time.Duration) error {
	logger := ctxlog.From(ctx)

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to read scratch root", goerr.V("root", root))
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to sweep scratch directory", "dir", dir, "error", err)
			continue
		}
		logger.Info("Swept abandoned scratch directory", "dir", dir)
	}

	return nil
}

// CheckScratch verifies that request directories can be created under root
func CheckScratch(root string) error {
	ws, err := NewWorkspace(root)
	if err != nil {
		return err
	}
	if err := os.Remove(ws.Dir()); err != nil {
		return goerr.Wrap(err, "failed to remove check directory", goerr.V("dir", ws.Dir()))
	}
	return nil
}
