package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
	"github.com/ytclip/ytclip/pkg/utils/errutil"
)

// Request headers of the clip endpoint
const (
	HeaderVideoURL   = "video-url"
	HeaderStartTime  = "start-time"
	HeaderEndTime    = "end-time"
	HeaderCookieFile = "cookie-file"
)

// headers whose values never reach the log
var secretHeaders = map[string]bool{
	http.CanonicalHeaderKey(HeaderCookieFile): true,
	"Authorization": true,
	"Cookie":        true,
}

type loggedHeader struct {
	Name  string
	Value string
}

type loggedSecretHeader struct {
	Name  string
	Value string `masq:"secret"`
}

// ClipHandler handles clip requests
type ClipHandler struct {
	clipUC interfaces.ClipUseCase
}

// NewClipHandler creates a new ClipHandler
func NewClipHandler(clipUC interfaces.ClipUseCase) *ClipHandler {
	return &ClipHandler{
		clipUC: clipUC,
	}
}

// Handle runs the clip pipeline for the request described by the headers
func (h *ClipHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	logHeaders(logger, r.Header)

	req, err := ParseDownloadRequest(r.Header)
	if err != nil {
		logger.Warn("Invalid clip request", "error", err)
		writeText(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("Processing clip request", slog.Any("request", req))

	result, err := h.clipUC.ProcessClip(ctx, req)
	if err != nil {
		errutil.Handle(ctx, "Failed to process clip request", err)
		status := http.StatusInternalServerError
		if goerr.HasTag(err, types.ErrTagValidation) {
			status = http.StatusBadRequest
		}
		writeText(ctx, w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("Failed to encode clip response", "error", err)
	}
}

// ParseDownloadRequest builds a DownloadRequest from request headers
func ParseDownloadRequest(header http.Header) (*model.DownloadRequest, error) {
	req := &model.DownloadRequest{
		VideoURL:      strings.TrimSpace(header.Get(HeaderVideoURL)),
		StartTime:     strings.TrimSpace(header.Get(HeaderStartTime)),
		EndTime:       strings.TrimSpace(header.Get(HeaderEndTime)),
		CookieFileURL: strings.TrimSpace(header.Get(HeaderCookieFile)),
	}

	if req.VideoURL == "" {
		return nil, goerr.New("Missing video URL", goerr.T(types.ErrTagValidation))
	}
	if req.CookieFileURL == "" {
		return nil, goerr.New("Missing cookie file URL", goerr.T(types.ErrTagValidation))
	}
	if req.StartTime == "" {
		req.StartTime = model.DefaultStartTime
	}

	return req, nil
}

func logHeaders(logger *slog.Logger, header http.Header) {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := strings.Join(header.Values(name), ", ")
		if secretHeaders[name] {
			logger.Debug("Received header", slog.Any("header", loggedSecretHeader{Name: name, Value: value}))
		} else {
			logger.Debug("Received header", slog.Any("header", loggedHeader{Name: name, Value: value}))
		}
	}
}
