package interfaces

import (
	"context"

	"github.com/ytclip/ytclip/pkg/domain/model"
)

// ClipUseCase runs the download, trim and upload pipeline for one request
type ClipUseCase interface {
	// ProcessClip processes a clip request and returns where the result was uploaded
	ProcessClip(ctx context.Context, req *model.DownloadRequest) (*model.UploadResult, error)
}
