package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/dispatch"
)

var errUnauthorized = errors.New("unauthorized")

// authenticate resolves the caller's identity: a static API key yields the
// default demo identity, a Bearer token yields the identity in its claims.
func (s *Server) authenticate(r *http.Request) (dispatch.CallContext, error) {
	if key := r.Header.Get("X-API-Key"); key != "" {
		if !s.provider.VerifyAPIKey(key) {
			return dispatch.CallContext{}, errUnauthorized
		}
		return dispatch.CallContext{
			Role:       dispatch.DefaultRole,
			Credential: key,
		}, nil
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return dispatch.CallContext{}, errUnauthorized
	}
	claims, err := s.provider.Verify(token)
	if err != nil {
		return dispatch.CallContext{}, errUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return dispatch.CallContext{}, errUnauthorized
	}
	return dispatch.CallContext{
		UserID:         userID,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
		Credential:     token,
	}, nil
}
