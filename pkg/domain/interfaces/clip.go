package interfaces

import (
	"context"
	"io"

	"github.com/ytclip/ytclip/pkg/domain/model"
)

// CredentialFetcher retrieves a cookie file into a request scratch directory
type CredentialFetcher interface {
	// Fetch downloads url into a new file under dir
	Fetch(ctx context.Context, url, dir string) (*model.TemporaryCredential, error)
}

// Extractor downloads a video with the extraction library
type Extractor interface {
	// Extract downloads videoURL into dir using the cookie file at cookiePath
	Extract(ctx context.Context, videoURL, cookiePath, dir string) (*model.MediaArtifact, error)
}

// Trimmer cuts a media file to a time range without re-encoding
type Trimmer interface {
	// Trim writes the tr range of input to output
	Trim(ctx context.Context, input string, tr *model.TimeRange, output string) error
}

// ObjectStorage stores blobs and exposes them by public URL
type ObjectStorage interface {
	// Put streams r into bucket/object and returns the object's public URL
	Put(ctx context.Context, bucket, object string, r io.Reader) (string, error)
}
