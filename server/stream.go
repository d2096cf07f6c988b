package server

import (
	"io"
	"net/http"
	"sync"

	"github.com/elnormous/contenttype"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sse"
)

// flushSink adapts the response writer into the connection manager's event
// sink. Writes are serialized and flushed immediately; the heartbeat
// goroutine and request-scoped senders share it.
type flushSink struct {
	mu sync.Mutex
	w  io.Writer
	f  http.Flusher
}

func (s *flushSink) WriteEvent(ev sse.Event) error {
	b, err := sse.Encode(ev)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

// handleStream opens the per-session event stream. The session must already
// exist; stream establishment never creates one. Opening a second stream for
// the same session replaces the first.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if acc := r.Header.Get("Accept"); acc != "" {
		if _, _, err := contenttype.GetAcceptableMediaType(r, eventStreamMediaTypes); err != nil {
			writeError(w, http.StatusUnsupportedMediaType, "accept must allow text/event-stream")
			return
		}
	}

	sessionID := r.PathValue("sessionID")
	if _, ok := s.store.Get(sessionID); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	conn, err := s.manager.CreateConnection(r.Context(), sessionID, &flushSink{w: w, f: flusher})
	if err != nil {
		// Headers are gone; all we can do is drop the stream.
		return
	}

	// Hold the response open until the manager closes the connection: a
	// replacement, a heartbeat timeout, client cancellation, or shutdown.
	<-conn.Done()
}
