// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the user service.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"
	"userservice/internal/api/handler/v1handler"
	"userservice/internal/config"
	"userservice/pkg/controller"
	"userservice/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// SecHandlerOptions configures bearer authentication for v1 endpoints.
	SecHandlerOptions *v1handler.SecHandlerOptions

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler. Zero disables it.
	RequestTimeout time.Duration
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// AllowedOrigins is passed to the CORS middleware.
	AllowedOrigins []string
}

// NewOptions maps the HTTP settings of cfg to Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
	}
}

type Deps struct {
	v1handler.Deps
}

const timeoutBody = `{"code":"UNAVAILABLE","message":"request timed out"}`

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes behind bearer authentication
// - pprof endpoints for profiling
// It also wraps the mux with CORS and logging middlewares and applies a request timeout.
func NewServer(ctx context.Context, deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	if opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, promhttp.Handler())
	}

	// v1 specs file
	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"User Service",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	if !secHandler.Enabled() {
		logger.Warn(ctx, "JWT public key is not configured, v1 API is unauthenticated")
	}
	v1handler.New(deps.Deps).Register(mux, secHandler.Middleware)

	// pprof
	mux.Handle(controller.PprofPrefix, controller.PprofMux())

	// timeout, inside cors so timed out answers keep the cors headers
	handler := controller.WithTimeout(opts.RequestTimeout, timeoutBody)(mux)

	// cors
	handler = controller.WithCORS(opts.AllowedOrigins)(handler)

	// logger
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
