package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// HealthCheck checks one dependency of the service
type HealthCheck func(ctx context.Context) error

type healthHandler struct {
	names  []string
	checks map[string]HealthCheck
}

func newHealthHandler(checks map[string]HealthCheck) *healthHandler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &healthHandler{names: names, checks: checks}
}

// ServeHTTP answers 200 when every check passes and 503 otherwise
func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := &model.HealthStatus{
		Status:  model.HealthStatusHealthy,
		Service: "ytclip",
		Version: types.Version,
	}

	code := http.StatusOK
	if len(h.names) > 0 {
		status.Checks = make(map[string]string, len(h.names))
	}
	for _, name := range h.names {
		if err := h.checks[name](ctx); err != nil {
			ctxlog.From(ctx).Warn("Health check failed", "check", name, "error", err)
			status.Checks[name] = err.Error()
			status.Status = model.HealthStatusDegraded
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		ctxlog.From(ctx).Error("Failed to encode health response", "error", err)
	}
}
