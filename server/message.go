package server

import (
	"io"
	"net/http"

	"github.com/elnormous/contenttype"
)

var (
	jsonMediaType         = contenttype.NewMediaType("application/json")
	eventStreamMediaType  = contenttype.NewMediaType("text/event-stream")
	eventStreamMediaTypes = []contenttype.MediaType{eventStreamMediaType}
)

const (
	sessionIDHeader = "Mcp-Session-Id"

	// maxMessageBytes bounds how much of a request body the dispatcher ever
	// sees. Tool arguments are small; anything near this is abuse.
	maxMessageBytes = 4 << 20
)

// handleMessage is the JSON-RPC ingress. The dispatcher owns the whole
// error taxonomy, including -32700 for a malformed body, so HTTP status is
// 200 for every processed message; non-200 is reserved for transport-level
// rejections (auth, media type).
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	cc, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !ctype.Matches(jsonMediaType) {
		writeError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	cc.SessionID = r.Header.Get(sessionIDHeader)

	resp := s.dispatcher.HandleMessage(r.Context(), body, cc)
	if resp == nil {
		// Notification: accepted, nothing to say back.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
