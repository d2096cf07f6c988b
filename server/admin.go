package server

import (
	"net/http"
	"time"
)

// handleDeleteSession tears a session down: the stream is closed before the
// store entry goes away so a concurrent heartbeat cannot observe a live
// connection for a deleted session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessionID := r.PathValue("sessionID")
	s.manager.CloseConnection(sessionID)
	if !s.store.Delete(sessionID) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":   true,
		"sessionId": sessionID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions":    s.store.Stats(),
		"connections": s.manager.Count(),
	})
}
