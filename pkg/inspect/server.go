package inspect

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/env"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/scene"
)

// DefaultMaxBodySize bounds scene documents posted to /layout.
const DefaultMaxBodySize = 1 << 20

// Default timeouts.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

// Server serves the inspector HTTP API.
type Server struct {
	environment *env.Environment
	observers   []layout.Observer
	gatherer    prometheus.Gatherer
	hub         *Hub
	logger      *slog.Logger
	maxBody     int64
	proposal    layout.Proposal

	engine *layout.Engine
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithEnvironment sets the layout environment used for every pass.
func WithEnvironment(e *env.Environment) Option {
	return func(s *Server) {
		s.environment = e
	}
}

// WithObserver adds a layout observer, such as telemetry metrics.
func WithObserver(o layout.Observer) Option {
	return func(s *Server) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithGatherer sets the source for /metrics.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHub sets the event hub served on /events.
func WithHub(h *Hub) Option {
	return func(s *Server) {
		s.hub = h
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMaxBodySize bounds request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.maxBody = n
	}
}

// WithDefaultProposal sets the proposal used when neither the query nor the
// scene provides one.
func WithDefaultProposal(p layout.Proposal) Option {
	return func(s *Server) {
		s.proposal = p
	}
}

// New creates an inspector server.
func New(opts ...Option) *Server {
	s := &Server{
		gatherer: prometheus.DefaultGatherer,
		maxBody:  DefaultMaxBodySize,
		proposal: layout.UnboundedProposal,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "inspect")
	}
	if s.hub == nil {
		s.hub = NewHub(s.logger)
	}

	engineOpts := []layout.EngineOption{
		layout.WithEnvironment(s.environment),
		layout.WithLogger(s.logger),
		layout.WithObserver(s.hub),
	}
	for _, o := range s.observers {
		engineOpts = append(engineOpts, layout.WithObserver(o))
	}
	s.engine = layout.NewEngine(engineOpts...)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Post("/layout", s.handleLayout)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Method(http.MethodGet, "/events", s.hub)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector starting", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return errors.New("E403").Wrap(err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		s.hub.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return errors.New("E403").Wrap(err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

// LayoutResponse is the body returned by POST /layout.
type LayoutResponse struct {
	Name       string             `json:"name,omitempty"`
	Proposal   layout.Proposal    `json:"proposal"`
	Size       layout.Size        `json:"size"`
	Placements []layout.Placement `json:"placements"`
	Stats      *LayoutEvent       `json:"stats"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeErrorStatus(w, http.StatusRequestEntityTooLarge, errors.New("E201").
				WithDetailf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, errors.New("E201").WithDetail("request body could not be read").Wrap(err))
		return
	}

	sc, err := scene.Parse(r.URL.Query().Get("name"), data)
	if err != nil {
		writeError(w, err)
		return
	}

	p := sc.ProposalOr(s.proposal)
	if p.Width, err = queryExtent(r, "width", p.Width); err != nil {
		writeError(w, err)
		return
	}
	if p.Height, err = queryExtent(r, "height", p.Height); err != nil {
		writeError(w, err)
		return
	}

	res := s.engine.Layout(r.Context(), sc.Root, p)
	writeJSON(w, http.StatusOK, LayoutResponse{
		Name:       sc.Name,
		Proposal:   p,
		Size:       res.Size,
		Placements: res.Placements,
		Stats:      newLayoutEvent(res.Stats),
	})
}

// queryExtent reads an extent from the query. "none", "inf" and "0" mean
// unbounded; a missing parameter keeps def.
func queryExtent(r *http.Request, name string, def layout.Extent) (layout.Extent, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	switch strings.ToLower(raw) {
	case "":
		return def, nil
	case "none", "inf", "unbounded":
		return layout.Unbounded, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def, errors.New("E402").WithPath(name).
			WithDetailf("%s=%q is not a non-negative number", name, raw)
	}
	if v == 0 {
		return layout.Unbounded, nil
	}
	return layout.Fixed(v), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	le := errors.FromError(err, "E201")
	status := http.StatusInternalServerError
	switch le.Category {
	case errors.CategoryScene, errors.CategoryCLI:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, le)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errors.FromError(err, "E201"))
}
