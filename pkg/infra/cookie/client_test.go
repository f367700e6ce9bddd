package cookie_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/ytclip/ytclip/pkg/domain/types"
	"github.com/ytclip/ytclip/pkg/infra/cookie"
)

const cookieBody = "# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc\n"

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodGet)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cookieBody))
	}))
	defer server.Close()

	dir := t.TempDir()
	cred, err := cookie.NewClient().Fetch(context.Background(), server.URL+"/cookies.txt", dir)
	gt.NoError(t, err)

	content, err := os.ReadFile(cred.LocalPath)
	gt.NoError(t, err)
	gt.Equal(t, string(content), cookieBody)

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Equal(t, len(entries), 1)
}

func TestClient_Fetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	cred, err := cookie.NewClient().Fetch(context.Background(), server.URL, dir)
	gt.Error(t, err)
	gt.True(t, cred == nil)
	gt.True(t, goerr.HasTag(err, types.ErrTagCredentialFetch))
	gt.String(t, err.Error()).Contains("status code: 404")

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Equal(t, len(entries), 0)
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := cookie.NewClient().Fetch(context.Background(), url, t.TempDir())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagCredentialFetch))
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := cookie.NewClient(cookie.WithTimeout(50*time.Millisecond)).Fetch(context.Background(), server.URL, t.TempDir())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagCredentialFetch))
}

func TestClient_Fetch_ErrorHidesURLSecrets(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := cookie.NewClient(cookie.WithTimeout(50 * time.Millisecond))

	t.Run("timeout", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), server.URL+"/c.txt?token=very-secret", t.TempDir())
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagCredentialFetch))
		gt.String(t, err.Error()).NotContains("very-secret")
		gt.String(t, fmt.Sprintf("%+v", err)).NotContains("very-secret")
		gt.Equal(t, goerr.Unwrap(err).Values()["url"], any(server.URL+"/c.txt"))
	})

	t.Run("connection refused", func(t *testing.T) {
		closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		closed.Close()

		_, err := client.Fetch(context.Background(), "http://user:pass@"+closed.Listener.Addr().String()+"/c.txt?token=very-secret", t.TempDir())
		gt.Error(t, err)
		gt.String(t, err.Error()).NotContains("very-secret")
		gt.String(t, err.Error()).NotContains("pass")
	})
}
