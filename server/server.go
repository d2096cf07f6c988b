// Package server is the HTTP boundary: it authenticates callers, feeds
// JSON-RPC messages to the dispatcher, serves the per-session SSE stream,
// and exposes the token, session teardown, health, and stats endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/dispatch"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/logctx"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/oauth"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sse"
)

// Options wires the server to its collaborators.
type Options struct {
	Addr          string
	ShutdownGrace time.Duration

	Store      *sessions.Store
	Dispatcher *dispatch.Dispatcher
	Manager    *sse.Manager
	Provider   *oauth.Provider
	Logger     *slog.Logger
}

// Server is the HTTP front of the mock.
type Server struct {
	addr          string
	shutdownGrace time.Duration

	store      *sessions.Store
	dispatcher *dispatch.Dispatcher
	manager    *sse.Manager
	provider   *oauth.Provider
	log        *slog.Logger
}

// New builds a Server from its options.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	grace := opts.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	return &Server{
		addr:          opts.Addr,
		shutdownGrace: grace,
		store:         opts.Store,
		dispatcher:    opts.Dispatcher,
		manager:       opts.Manager,
		provider:      opts.Provider,
		log:           log,
	}
}

// Handler returns the full route table. Exposed so tests can drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/message", s.handleMessage)
	mux.HandleFunc("GET /api/sse/{sessionID}", s.handleStream)
	mux.HandleFunc("DELETE /api/session/{sessionID}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/oauth/token", s.provider.HandleToken)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	return s.withRequestLog(mux)
}

// withRequestLog stamps each request with an id and logs completion.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{
			RequestID:  uuid.NewString(),
			Method:     r.Method,
			RemoteAddr: r.RemoteAddr,
			Path:       r.URL.Path,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
		s.log.InfoContext(ctx, "http.request.done")
	})
}

// Run serves until ctx is done, then drains: in-flight requests get the
// shutdown grace window and every SSE connection is closed so stream
// handlers unblock.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http.listen.ok", slog.String("addr", s.addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.manager.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
