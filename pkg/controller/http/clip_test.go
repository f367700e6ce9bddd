package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	controller "github.com/ytclip/ytclip/pkg/controller/http"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
	"github.com/ytclip/ytclip/pkg/infra/cookie"
	"github.com/ytclip/ytclip/pkg/infra/ffmpeg"
	"github.com/ytclip/ytclip/pkg/usecase"
)

// mockClipUseCase is a mock implementation of ClipUseCase
type mockClipUseCase struct {
	processFunc func(ctx context.Context, req *model.DownloadRequest) (*model.UploadResult, error)
	requests    []*model.DownloadRequest
}

func (m *mockClipUseCase) ProcessClip(ctx context.Context, req *model.DownloadRequest) (*model.UploadResult, error) {
	m.requests = append(m.requests, req)
	if m.processFunc != nil {
		return m.processFunc(ctx, req)
	}
	return &model.UploadResult{
		PublicURL: "https://storage.googleapis.com/youtube-clips/video.mp4",
		FileName:  "video.mp4",
	}, nil
}

func newClipRequest(headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestClipHandler_Validation(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		wantBody string
	}{
		{
			name:     "missing video url",
			headers:  map[string]string{"cookie-file": "https://example.com/cookies.txt"},
			wantBody: "Missing video URL",
		},
		{
			name:     "missing everything",
			headers:  map[string]string{},
			wantBody: "Missing video URL",
		},
		{
			name:     "missing cookie file",
			headers:  map[string]string{"video-url": "https://youtu.be/abc"},
			wantBody: "Missing cookie file URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockClipUseCase{}
			handler := controller.NewClipHandler(uc)

			w := httptest.NewRecorder()
			handler.Handle(w, newClipRequest(tt.headers))

			gt.Equal(t, w.Code, http.StatusBadRequest)
			gt.Equal(t, w.Body.String(), tt.wantBody)
			gt.Equal(t, len(uc.requests), 0)
		})
	}
}

func TestClipHandler_Success(t *testing.T) {
	uc := &mockClipUseCase{}
	handler := controller.NewClipHandler(uc)

	w := httptest.NewRecorder()
	handler.Handle(w, newClipRequest(map[string]string{
		"video-url":   "https://youtu.be/abc",
		"cookie-file": "https://example.com/cookies.txt",
		"end-time":    "1:00",
	}))

	gt.Equal(t, w.Code, http.StatusOK)
	gt.String(t, w.Header().Get("Content-Type")).Contains("application/json")

	var body map[string]string
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	gt.Equal(t, body["public_url"], "https://storage.googleapis.com/youtube-clips/video.mp4")
	gt.Equal(t, body["file_name"], "video.mp4")

	gt.Equal(t, len(uc.requests), 1)
	gt.Equal(t, uc.requests[0].VideoURL, "https://youtu.be/abc")
	gt.Equal(t, uc.requests[0].StartTime, "0:00")
	gt.Equal(t, uc.requests[0].EndTime, "1:00")
	gt.Equal(t, uc.requests[0].CookieFileURL, "https://example.com/cookies.txt")
}

func TestClipHandler_PipelineError(t *testing.T) {
	uc := &mockClipUseCase{
		processFunc: func(ctx context.Context, req *model.DownloadRequest) (*model.UploadResult, error) {
			return nil, goerr.New("failed to download cookie file, status code: 403", goerr.T(types.ErrTagCredentialFetch))
		},
	}
	handler := controller.NewClipHandler(uc)

	w := httptest.NewRecorder()
	handler.Handle(w, newClipRequest(map[string]string{
		"video-url":   "https://youtu.be/abc",
		"cookie-file": "https://example.com/cookies.txt",
	}))

	gt.Equal(t, w.Code, http.StatusInternalServerError)
	gt.Equal(t, w.Body.String(), "failed to download cookie file, status code: 403")
}

func TestParseDownloadRequest(t *testing.T) {
	header := http.Header{}
	header.Set("video-url", " https://youtu.be/abc ")
	header.Set("cookie-file", "https://example.com/cookies.txt")
	header.Set("start-time", "1:30")

	req, err := controller.ParseDownloadRequest(header)
	gt.NoError(t, err)
	gt.Equal(t, req.VideoURL, "https://youtu.be/abc")
	gt.Equal(t, req.StartTime, "1:30")
	gt.False(t, req.HasEndTime())
}

// fakeExtractor writes a downloaded video into the request workspace
type fakeExtractor struct{}

func (fakeExtractor) Extract(ctx context.Context, videoURL, cookiePath, dir string) (*model.MediaArtifact, error) {
	path := filepath.Join(dir, "Test Video.mp4")
	if err := os.WriteFile(path, []byte("video"), 0600); err != nil {
		return nil, err
	}
	return &model.MediaArtifact{LocalPath: path, Title: "Test Video"}, nil
}

type fakeStorage struct {
	objects map[string]string
}

func (s *fakeStorage) Put(ctx context.Context, bucket, object string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[bucket+"/"+object] = string(body)
	return "https://storage.googleapis.com/" + bucket + "/" + object, nil
}

// cutRunner copies the ffmpeg input to its output
type cutRunner struct {
	args []string
}

func (c *cutRunner) Run(ctx context.Context, name string, args ...string) error {
	c.args = args
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	return os.WriteFile(args[len(args)-1], data, 0600)
}

func (c *cutRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, nil
}

func TestServer_EndToEnd(t *testing.T) {
	cookieServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cookies.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# Netscape HTTP Cookie File\n"))
	}))
	defer cookieServer.Close()

	scratch := t.TempDir()
	storage := &fakeStorage{objects: map[string]string{}}
	runner := &cutRunner{}
	uc := usecase.NewClip(
		model.PipelineConfig{Bucket: model.DefaultBucket, ScratchDir: scratch},
		cookie.NewClient(),
		fakeExtractor{},
		ffmpeg.NewTrimmer(ffmpeg.WithCommandRunner(runner)),
		storage,
	)

	server, err := controller.NewServer(context.Background(), uc, controller.WithAddr("localhost:0"))
	gt.NoError(t, err)
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	do := func(t *testing.T, method string, headers map[string]string) (*http.Response, string) {
		req, err := http.NewRequest(method, ts.URL+"/", nil)
		gt.NoError(t, err)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := http.DefaultClient.Do(req)
		gt.NoError(t, err)
		defer func() {
			_ = resp.Body.Close() // Error ignored in test
		}()
		body, err := io.ReadAll(resp.Body)
		gt.NoError(t, err)
		return resp, string(body)
	}

	assertScratchEmpty := func(t *testing.T) {
		entries, err := os.ReadDir(scratch)
		gt.NoError(t, err)
		gt.Equal(t, len(entries), 0)
	}

	t.Run("full video", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, map[string]string{
			"video-url":   "https://youtu.be/abc",
			"cookie-file": cookieServer.URL + "/cookies.txt",
		})
		gt.Equal(t, resp.StatusCode, http.StatusOK)

		var result map[string]string
		gt.NoError(t, json.Unmarshal([]byte(body), &result))
		gt.Equal(t, result["file_name"], "Test Video.mp4")
		gt.Equal(t, result["public_url"], "https://storage.googleapis.com/youtube-clips/Test Video.mp4")
		gt.Equal(t, storage.objects["youtube-clips/Test Video.mp4"], "video")
		assertScratchEmpty(t)
	})

	t.Run("clip", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, map[string]string{
			"video-url":   "https://youtu.be/abc",
			"cookie-file": cookieServer.URL + "/cookies.txt",
			"start-time":  "1:30",
			"end-time":    "2:00",
		})
		gt.Equal(t, resp.StatusCode, http.StatusOK)
		gt.String(t, body).Contains(`"file_name":"Test Video [Clip 01:30 to 02:00].mp4"`)
		gt.Equal(t, strings.Join(runner.args[2:6], " "), "-ss 90 -to 120")
		assertScratchEmpty(t)
	})

	t.Run("cookie file not found", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, map[string]string{
			"video-url":   "https://youtu.be/abc",
			"cookie-file": cookieServer.URL + "/missing.txt",
		})
		gt.Equal(t, resp.StatusCode, http.StatusInternalServerError)
		gt.String(t, body).Contains("status code: 404")
		assertScratchEmpty(t)
	})

	t.Run("missing header", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, map[string]string{
			"video-url": "https://youtu.be/abc",
		})
		gt.Equal(t, resp.StatusCode, http.StatusBadRequest)
		gt.Equal(t, body, "Missing cookie file URL")
	})
}
