package oauth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// tokenError is the RFC 6749 error response body.
type tokenError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// HandleToken serves POST token requests: grant_type=password with
// username/password form fields, or grant_type=refresh_token.
func (p *Provider) HandleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeTokenError(w, http.StatusMethodNotAllowed, "invalid_request", "POST required")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeTokenError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}

	var (
		resp *TokenResponse
		err  error
	)
	switch grantType := r.PostFormValue("grant_type"); grantType {
	case "password":
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			writeTokenError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
			return
		}
		resp, err = p.PasswordGrant(r.Context(), username, password)
	case "refresh_token":
		refreshToken := r.PostFormValue("refresh_token")
		if refreshToken == "" {
			writeTokenError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
			return
		}
		resp, err = p.RefreshGrant(r.Context(), refreshToken)
	case "":
		writeTokenError(w, http.StatusBadRequest, "invalid_request", "grant_type is required")
		return
	default:
		writeTokenError(w, http.StatusBadRequest, "unsupported_grant_type", "supported grant types: password, refresh_token")
		return
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidGrant):
		writeTokenError(w, http.StatusUnauthorized, "invalid_grant", err.Error())
		return
	case err != nil:
		writeTokenError(w, http.StatusInternalServerError, "server_error", "token issuance failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeTokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(tokenError{Error: code, Description: description})
}
