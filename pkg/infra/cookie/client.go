package cookie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// DefaultTimeout bounds a single cookie file download
const DefaultTimeout = 30 * time.Second

type client struct {
	httpClient *http.Client
}

// Option is a functional option for the cookie file client
type Option func(*client)

// WithHTTPClient sets the HTTP client used for downloads
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(cl *client) {
		cl.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient creates a CredentialFetcher that downloads cookie files over HTTP
func NewClient(opts ...Option) interfaces.CredentialFetcher {
	c := &client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the cookie file at rawURL into a new temporary file under dir.
// The file is only created once the server answered 200; the caller owns it.
// Errors never carry the query or user info of rawURL.
func (c *client) Fetch(ctx context.Context, rawURL, dir string) (*model.TemporaryCredential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, goerr.Wrap(stripURL(err), "failed to create cookie file request",
			goerr.V("url", redactURL(rawURL)),
			goerr.T(types.ErrTagCredentialFetch))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(stripURL(err), "failed to download cookie file",
			goerr.V("url", redactURL(rawURL)),
			goerr.T(types.ErrTagCredentialFetch))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New(fmt.Sprintf("failed to download cookie file, status code: %d", resp.StatusCode),
			goerr.V("status_code", resp.StatusCode),
			goerr.T(types.ErrTagCredentialFetch))
	}

	f, err := os.CreateTemp(dir, "cookies-*.txt")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cookie file", goerr.V("dir", dir), goerr.T(types.ErrTagCredentialFetch))
	}
	cred := &model.TemporaryCredential{LocalPath: f.Name()}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(cred.LocalPath)
		return nil, goerr.Wrap(err, "failed to write cookie file", goerr.V("path", cred.LocalPath), goerr.T(types.ErrTagCredentialFetch))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(cred.LocalPath)
		return nil, goerr.Wrap(err, "failed to close cookie file", goerr.V("path", cred.LocalPath), goerr.T(types.ErrTagCredentialFetch))
	}

	return cred, nil
}

// stripURL drops the *url.Error layer, whose message repeats the full URL
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// redactURL keeps scheme, host and path of rawURL
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "(invalid url)"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}
