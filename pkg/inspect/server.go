package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/protocol"
	"github.com/vango-dev/recon/pkg/render"
)

// Runner serializes access to the inspected tree. *reconcile.Root
// implements it.
type Runner interface {
	Run(fn func() error) error
}

type direct struct{}

func (direct) Run(fn func() error) error { return fn() }

// Config configures the inspector.
type Config struct {
	// Runner guards tree access. Default: calls run directly.
	Runner Runner

	// Gatherer backs /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger for request and stream errors.
	Logger *slog.Logger

	// Backlog is the live stream's buffer size. Default: 1024.
	Backlog int
}

// Option configures the inspector.
type Option func(*Config)

// WithRunner sets the tree guard.
func WithRunner(r Runner) Option {
	return func(c *Config) {
		c.Runner = r
	}
}

// WithGatherer sets the metrics source.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithBacklog sets the live stream buffer size.
func WithBacklog(n int) Option {
	return func(c *Config) {
		c.Backlog = n
	}
}

// Server is the inspector HTTP server.
type Server struct {
	doc         *memhost.Document
	config      Config
	hub         *Hub
	router      chi.Router
	unsubscribe func()
}

// New creates an inspector for doc and subscribes to its journal.
func New(doc *memhost.Document, opts ...Option) *Server {
	config := Config{
		Runner:   direct{},
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default().With("component", "inspect")
	}

	s := &Server{
		doc:    doc,
		config: config,
		hub:    NewHub(config.Backlog, config.Logger),
	}
	s.unsubscribe = doc.Journal().Subscribe(s.hub.Publish)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the live stream hub.
func (s *Server) Hub() *Hub { return s.hub }

// Close detaches from the journal and drops stream clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/tree", s.handleTree)
	r.Get("/journal", s.handleJournal)
	r.Post("/events/{node}/{event}", s.handleEvent)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr and streams mutations until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.config.Logger.Info("inspector listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	config := render.RendererConfig{
		SkipRoot: true,
		Pretty:   r.URL.Query().Get("pretty") != "",
		NodeIDs:  r.URL.Query().Get("ids") != "",
	}
	var html string
	s.config.Runner.Run(func() error {
		html = render.NewRenderer(config).RenderToString(s.doc.Body())
		return nil
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}
	ms := s.doc.Journal().Since(since)

	if r.URL.Query().Get("format") == "binary" {
		frames, err := protocol.EncodeMutationFrames(ms)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		for _, f := range frames {
			if err := protocol.WriteFrame(w, f); err != nil {
				s.config.Logger.Debug("journal write failed", "error", err)
				return
			}
		}
		return
	}

	if ms == nil {
		ms = []host.Mutation{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ms)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "node"), 10, 64)
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return
	}
	event := chi.URLParam(r, "event")

	var payload any
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
	}

	var fired bool
	err = s.config.Runner.Run(func() error {
		n := s.doc.Lookup(id)
		if n == nil {
			return errNodeNotFound
		}
		var err error
		fired, err = s.doc.Dispatch(n, event, payload)
		return err
	})
	switch {
	case errors.Is(err, errNodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		s.config.Logger.Warn("event handler failed", "node", id, "event", event, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case !fired:
		http.Error(w, "no listener for "+event, http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

var errNodeNotFound = errors.New("node not found")
