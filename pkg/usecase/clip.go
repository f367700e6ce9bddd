package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

type clipUseCase struct {
	cfg       model.PipelineConfig
	fetcher   interfaces.CredentialFetcher
	extractor interfaces.Extractor
	trimmer   interfaces.Trimmer
	storage   interfaces.ObjectStorage
}

// NewClip creates the clip pipeline
func NewClip(
	cfg model.PipelineConfig,
	fetcher interfaces.CredentialFetcher,
	extractor interfaces.Extractor,
	trimmer interfaces.Trimmer,
	storage interfaces.ObjectStorage,
) interfaces.ClipUseCase {
	return &clipUseCase{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		trimmer:   trimmer,
		storage:   storage,
	}
}

// ProcessClip fetches the cookie file, downloads the video, trims it when a
// range was requested and uploads the result. The first failure aborts the
// pipeline; the workspace is cleaned up on every path.
func (uc *clipUseCase) ProcessClip(ctx context.Context, req *model.DownloadRequest) (*model.UploadResult, error) {
	logger := ctxlog.From(ctx)

	ws, err := NewWorkspace(uc.cfg.ScratchDir)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup(ctx)

	cred, err := uc.fetcher.Fetch(ctx, req.CookieFileURL, ws.Dir())
	if err != nil {
		return nil, goerr.Wrap(err, "credential fetch failed", goerr.T(types.ErrTagCredentialFetch))
	}
	ws.Track(cred.LocalPath)

	artifact, err := uc.extractor.Extract(ctx, req.VideoURL, cred.LocalPath, ws.Dir())
	if err != nil {
		return nil, goerr.Wrap(err, "extraction failed", goerr.T(types.ErrTagExtraction))
	}
	ws.Track(artifact.LocalPath)

	tr, err := model.ResolveTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var endSeconds any
	if tr.EndSeconds != nil {
		endSeconds = *tr.EndSeconds
	}
	logger.Info("Resolved time range",
		"start_seconds", tr.StartSeconds,
		"end_seconds", endSeconds,
		"trim", tr.NeedsTrim(),
	)

	uploadPath := artifact.LocalPath
	if tr.NeedsTrim() {
		trimmed := ws.Track(filepath.Join(ws.Dir(), model.ClipFileName(artifact.Title, tr)))
		if err := uc.trimmer.Trim(ctx, artifact.LocalPath, tr, trimmed); err != nil {
			return nil, goerr.Wrap(err, "trim failed", goerr.T(types.ErrTagTrim))
		}
		logger.Info("Trimmed video", "path", trimmed)
		uploadPath = trimmed
	}

	return uc.upload(ctx, uploadPath)
}

func (uc *clipUseCase) upload(ctx context.Context, path string) (*model.UploadResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, goerr.Wrap(err, "upload file not found", goerr.V("path", path), goerr.T(types.ErrTagUpload))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open upload file", goerr.V("path", path), goerr.T(types.ErrTagUpload))
	}
	defer f.Close()

	name := filepath.Base(path)
	ctxlog.From(ctx).Info("Uploading to Cloud Storage", "bucket", uc.cfg.Bucket, "object", name)

	publicURL, err := uc.storage.Put(ctx, uc.cfg.Bucket, name, f)
	if err != nil {
		return nil, goerr.Wrap(err, "upload failed", goerr.T(types.ErrTagUpload))
	}

	return &model.UploadResult{
		PublicURL: publicURL,
		FileName:  name,
	}, nil
}
