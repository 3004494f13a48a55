// Package server serves settled diagram exports over HTTP for `folio serve`.
//
// Each request settles the configured graph for the requested viewport, or
// serves the artifact from the cache when the same graph and options were
// rendered before. There is no shared live simulation: every response is an
// independent, deterministic export.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/matzehuels/folio/pkg/buildinfo"
	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/graph"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/pipeline"
	"github.com/matzehuels/folio/pkg/render"
)

// Response headers.
const (
	HeaderSceneID   = "X-Scene-ID"
	HeaderRequestID = "X-Request-ID"
	HeaderCache     = "X-Cache"
	HeaderVersion   = "X-Folio-Version"
)

// Defaults for Config.
const (
	DefaultRateLimit = 5.0
	DefaultBurst     = 10
	shutdownTimeout  = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner  *pipeline.Runner
	Graph   graph.Graph
	Diagram diagram.Options

	// RateLimit is the sustained render rate in requests per second across
	// all clients. Zero uses DefaultRateLimit; a negative value disables
	// throttling.
	RateLimit float64
	Burst     int

	Logger *log.Logger
}

// Server renders exports on request.
type Server struct {
	runner  *pipeline.Runner
	limiter *rate.Limiter
	logger  *log.Logger

	mu    sync.RWMutex
	graph graph.Graph
	opts  diagram.Options
}

// New creates a server. A nil Runner renders without caching.
func New(cfg Config) (*Server, error) {
	if err := cfg.Graph.Validate(); err != nil {
		return nil, err
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Diagram.LinkDistance == 0 {
		cfg.Diagram = diagram.DefaultOptions()
	}

	limit, burst := rate.Limit(cfg.RateLimit), cfg.Burst
	switch {
	case cfg.RateLimit < 0:
		limit = rate.Inf
	case cfg.RateLimit == 0:
		limit = DefaultRateLimit
	}
	if burst <= 0 {
		burst = DefaultBurst
	}

	return &Server{
		runner:  cfg.Runner,
		limiter: rate.NewLimiter(limit, burst),
		logger:  cfg.Logger,
		graph:   cfg.Graph.Clone(),
		opts:    cfg.Diagram,
	}, nil
}

// SetGraph swaps the graph and tuning served by later requests. An invalid
// graph is rejected and the current one stays.
func (s *Server) SetGraph(g graph.Graph, opts diagram.Options) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := opts.Anchors.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.graph, s.opts = g.Clone(), opts
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (graph.Graph, diagram.Options) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.opts
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.throttle)
		r.Get("/graph.svg", s.handleExport(render.FormatSVG))
		r.Get("/graph.png", s.handleExport(render.FormatPNG))
		r.Get("/graph.dot.svg", s.handleExport(render.FormatDOTSVG))
		r.Get("/graph.json", s.handleExport(render.FormatJSON))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(HeaderVersion, buildinfo.Short())
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, dopts := s.current()
		opts, err := parseQuery(r, dopts, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := s.runner.Render(r.Context(), g, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", render.ContentType(format))
		w.Header().Set(HeaderSceneID, result.SceneID)
		if result.CacheHit {
			w.Header().Set(HeaderCache, "hit")
		} else {
			w.Header().Set(HeaderCache, "miss")
		}
		_, _ = w.Write(result.Artifacts[format])
	}
}

// parseQuery reads width, height and compact for one export format. Missing
// values use the pipeline defaults.
func parseQuery(r *http.Request, dopts diagram.Options, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Diagram: dopts, Formats: []string{format}}

	var err error
	if opts.Width, err = floatParam(q.Get("width"), "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q.Get("height"), "height"); err != nil {
		return opts, err
	}
	if v := q.Get("compact"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "compact must be true or false")
		}
		opts.Compact = b
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func floatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidViewport, "%s must be a number", name)
	}
	return f, nil
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"id", w.Header().Get(HeaderRequestID))
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			observability.HTTP().OnThrottled(r.Context(), r.Method, r.URL.Path)
			w.Header().Set("Retry-After", "1")
			s.writeError(w, r, &errors.RateLimitedError{RetryAfter: 1})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Responses
// =============================================================================

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
