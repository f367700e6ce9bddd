package gcs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const publicHost = "storage.googleapis.com"

type config struct {
	projectID       string
	credentialsFile string
	endpoint        string
	contentType     string
}

// Option is a functional option for the Cloud Storage client
type Option func(*config)

// WithProjectID sets the quota project
func WithProjectID(projectID string) Option {
	return func(c *config) {
		c.projectID = projectID
	}
}

// WithCredentialsFile uses a service account key file instead of ADC
func WithCredentialsFile(path string) Option {
	return func(c *config) {
		c.credentialsFile = path
	}
}

// WithEndpoint points the client to another endpoint, such as an emulator
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithContentType sets the content type of uploaded objects
func WithContentType(contentType string) Option {
	return func(c *config) {
		c.contentType = contentType
	}
}

type client struct {
	storage     *storage.Client
	contentType string
}

// NewClient creates an ObjectStorage backed by Google Cloud Storage
func NewClient(ctx context.Context, opts ...Option) (interfaces.ObjectStorage, error) {
	cfg := &config{
		contentType: "video/mp4",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []option.ClientOption
	if cfg.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.credentialsFile))
	}
	if cfg.projectID != "" {
		clientOpts = append(clientOpts, option.WithQuotaProject(cfg.projectID))
	}
	if cfg.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.endpoint), option.WithoutAuthentication())
	}

	sc, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &client{
		storage:     sc,
		contentType: cfg.contentType,
	}, nil
}

// Put streams r into bucket/object in a single attempt and returns its public URL
func (c *client) Put(ctx context.Context, bucket, object string, r io.Reader) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj := c.storage.Bucket(bucket).Object(object).Retryer(storage.WithPolicy(storage.RetryNever))
	w := obj.NewWriter(ctx)
	w.ContentType = c.contentType

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, describe(err), goerr.V("bucket", bucket), goerr.V("object", object))
	}

	return PublicURL(bucket, object), nil
}

// PublicURL returns the public HTTPS URL of bucket/object
func PublicURL(bucket, object string) string {
	u := url.URL{
		Scheme: "https",
		Host:   publicHost,
		Path:   "/" + bucket + "/" + object,
	}
	return u.String()
}

func describe(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "permission denied on bucket"
		case http.StatusNotFound:
			return "bucket not found"
		case http.StatusTooManyRequests:
			return "storage quota exceeded"
		}
	}
	return "failed to upload object"
}
