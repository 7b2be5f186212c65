package oserver

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrNotFound is returned by Store lookups for absent or expired entries.
var ErrNotFound = errors.New("oserver: not found")

// RFC 6749 / RFC 7591 error codes. These are the only values ever written in
// an error body.
const (
	ErrInvalidRequest          = "invalid_request"
	ErrUnauthorizedClient      = "unauthorized_client"
	ErrAccessDenied            = "access_denied"
	ErrUnsupportedResponseType = "unsupported_response_type"
	ErrInvalidScope            = "invalid_scope"
	ErrServerError             = "server_error"
	ErrTemporarilyUnavailable  = "temporarily_unavailable"
	ErrInvalidClient           = "invalid_client"
	ErrInvalidGrant            = "invalid_grant"
	ErrUnsupportedGrantType    = "unsupported_grant_type"
	ErrInvalidClientMetadata   = "invalid_client_metadata"
)

// OAuthError is the wire shape of every failure response.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// WriteOAuthError emits the JSON error body with the given status code. This
// is the only place error bodies are constructed.
func WriteOAuthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&OAuthError{Code: code, Description: description})
}
