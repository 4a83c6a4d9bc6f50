package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"raccoon/internal/api"
	"raccoon/internal/reconciler"
	"raccoon/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout bounds dry runs and plan computation, which block
	// on the registry and the clusters.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the default idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second

	// RunStartedMessage is returned by POST /run.
	RunStartedMessage = "Raccoon started async cleanup! See logs for more details."
)

// Trigger is the pass manager surface exposed over HTTP.
type Trigger interface {
	RunAsync() string
	DryRun(ctx context.Context) (reconciler.DryRunSummary, error)
	Plan(ctx context.Context) (*reconciler.Plan, error)
}

// RunResponse is the body of POST /run.
type RunResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	PassID  string `json:"passId"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Options configures the listener.
type Options struct {
	Host string
	Port int

	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP trigger surface of serve mode.
type Server struct {
	trigger  Trigger
	options  Options
	handler  http.Handler
	started  time.Time
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server. Nothing listens until Start.
func New(trigger Trigger, options Options) *Server {
	s := &Server{
		trigger: trigger,
		options: options,
		started: time.Now(),
	}
	s.handler = s.createMux()
	return s
}

// Handler returns the routing handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) createMux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"uptime": time.Since(s.started).Round(time.Second).String(),
		})
	})

	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("POST /dry-run", s.handleDryRun)
	mux.HandleFunc("GET /plan", s.handlePlan)

	if s.options.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.options.Gatherer, promhttp.HandlerOpts{}))
	}

	return logRequests(mux)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	passID := s.trigger.RunAsync()
	logging.Info("Server", "Started pass %s on request from %s", passID, r.RemoteAddr)
	writeJSON(w, http.StatusOK, RunResponse{
		Code:    http.StatusOK,
		Message: RunStartedMessage,
		PassID:  passID,
	})
}

func (s *Server) handleDryRun(w http.ResponseWriter, r *http.Request) {
	summary, err := s.trigger.DryRun(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.trigger.Plan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	addr := net.JoinHostPort(s.options.Host, strconv.Itoa(s.options.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server", err, "HTTP server stopped unexpectedly")
		}
	}()

	logging.Info("Server", "Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	logging.Info("Server", "Shutting down HTTP server")
	return server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("Server", "Failed to write response: %v", err)
	}
}

// writeError maps pass errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case api.IsInvariantViolation(err):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Code: status, Message: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Debug("Server", "%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
