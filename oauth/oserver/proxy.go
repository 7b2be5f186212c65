package oserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Token handles POST /token. Actual token minting is delegated to the
// upstream issuer: this handler validates and consumes a locally-issued
// authorization code when it recognizes one, then forwards the exchange
// upstream and relays the upstream response. Codes this facade never issued
// pass through untouched, matching the validator's posture on unknown
// access tokens.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	req, err := parseTokenRequest(r)
	if err != nil {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "malformed token request")
		return
	}

	switch GrantType(req.GrantType) {
	case GrantTypeAuthorizationCode:
		if req.Code == "" {
			WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "code is required")
			return
		}
		if local, err := h.store.GetAuthCode(r.Context(), req.Code); err == nil {
			if local.ClientID != req.ClientID {
				WriteOAuthError(w, http.StatusBadRequest, ErrInvalidGrant, "code was issued to a different client")
				return
			}
			if local.RedirectURI != req.RedirectURI {
				WriteOAuthError(w, http.StatusBadRequest, ErrInvalidGrant, "redirect_uri does not match the code")
				return
			}
			// single use: a replayed code fails here
			if _, err := h.store.ConsumeAuthCode(r.Context(), req.Code); err != nil {
				WriteOAuthError(w, http.StatusBadRequest, ErrInvalidGrant, "authorization code already used or expired")
				return
			}
		}
		h.exchangeUpstream(w, r, req)
	case GrantTypeRefreshToken:
		if req.RefreshToken == "" {
			WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "refresh_token is required")
			return
		}
		h.refreshUpstream(w, r, req)
	default:
		WriteOAuthError(w, http.StatusBadRequest, ErrUnsupportedGrantType, "unsupported grant_type: "+req.GrantType)
	}
}

func (h *Handler) upstreamConfig(req TokenRequest) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: h.upstreamTokenURL,
		},
		RedirectURL: req.RedirectURI,
	}
}

func (h *Handler) exchangeUpstream(w http.ResponseWriter, r *http.Request, req TokenRequest) {
	cfg := h.upstreamConfig(req)
	var opts []oauth2.AuthCodeOption
	if req.CodeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", req.CodeVerifier))
	}
	tok, err := cfg.Exchange(r.Context(), req.Code, opts...)
	if err != nil {
		h.logger.Warn("upstream code exchange failed", "err", err, "client_id", req.ClientID)
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidGrant, "upstream token exchange failed")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponseFrom(tok))
}

func (h *Handler) refreshUpstream(w http.ResponseWriter, r *http.Request, req TokenRequest) {
	cfg := h.upstreamConfig(req)
	ts := cfg.TokenSource(r.Context(), &oauth2.Token{RefreshToken: req.RefreshToken})
	tok, err := ts.Token()
	if err != nil {
		h.logger.Warn("upstream token refresh failed", "err", err, "client_id", req.ClientID)
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidGrant, "upstream token refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponseFrom(tok))
}

func tokenResponseFrom(tok *oauth2.Token) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
	}
	if resp.TokenType == "" {
		resp.TokenType = "Bearer"
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	if s, ok := tok.Extra("scope").(string); ok {
		resp.Scope = s
	}
	return resp
}

// parseTokenRequest supports both form and JSON bodies.
func parseTokenRequest(r *http.Request) (TokenRequest, error) {
	var req TokenRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req = TokenRequest{
			GrantType:    r.Form.Get("grant_type"),
			Code:         r.Form.Get("code"),
			RedirectURI:  r.Form.Get("redirect_uri"),
			RefreshToken: r.Form.Get("refresh_token"),
			ClientID:     r.Form.Get("client_id"),
			ClientSecret: r.Form.Get("client_secret"),
			CodeVerifier: r.Form.Get("code_verifier"),
		}
		return req, nil
	}
	if r.Body == nil {
		return req, errors.New("empty body")
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}
