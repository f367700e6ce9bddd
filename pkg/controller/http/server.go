package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	healthChecks map[string]HealthCheck
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithHealthCheck adds a dependency check reported by the health endpoint
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(c *config) {
		c.healthChecks[name] = check
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	clipUC interfaces.ClipUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:         "localhost:8080",
		healthChecks: map[string]HealthCheck{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Method(http.MethodGet, "/health", newHealthHandler(cfg.healthChecks))

	// The clip function answers at its root for any of the methods callers used
	clipHandler := NewClipHandler(clipUC)
	router.Get("/", clipHandler.Handle)
	router.Post("/", clipHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
