package oserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Handler serves the OAuth facade endpoints on top of a Store.
type Handler struct {
	store            Store
	issuer           string
	upstreamTokenURL string
	logger           *slog.Logger
}

// NewHandler builds the facade handler. issuer is this server's external base
// URL; upstreamTokenURL is the token endpoint of the issuer real tokens come
// from.
func NewHandler(store Store, issuer, upstreamTokenURL string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, issuer: issuer, upstreamTokenURL: upstreamTokenURL, logger: logger}
}

// RegisterClient handles POST /register (dynamic client registration).
func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidClientMetadata, "invalid JSON body")
		return
	}
	if len(req.RedirectURIs) == 0 {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidClientMetadata, "redirect_uris is required and must be a non-empty array")
		return
	}
	for _, raw := range req.RedirectURIs {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			WriteOAuthError(w, http.StatusBadRequest, ErrInvalidClientMetadata, fmt.Sprintf("invalid redirect_uri: %s", raw))
			return
		}
	}

	// client_id gets secret-strength entropy behind a fixed prefix
	idPart, err := GenerateClientSecret()
	if err != nil {
		WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "failed to generate client_id")
		return
	}
	secret, err := GenerateClientSecret()
	if err != nil {
		WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "failed to generate client_secret")
		return
	}

	client := &OAuthClient{
		ClientID:          ClientIDPrefix + idPart,
		ClientSecret:      secret,
		Name:              req.ClientName,
		RedirectURIs:      req.RedirectURIs,
		GrantTypes:        req.GrantTypes,
		ResponseTypes:     req.ResponseTypes,
		TokenEndpointAuth: req.TokenEndpointAuth,
		IssuedAt:          time.Now().Unix(),
		SecretExpiresAt:   0, // never expires
	}
	if client.Name == "" {
		client.Name = "Unnamed Client"
	}
	if len(client.GrantTypes) == 0 {
		client.GrantTypes = []string{string(GrantTypeAuthorizationCode)}
	}
	if len(client.ResponseTypes) == 0 {
		client.ResponseTypes = []string{"code"}
	}
	if client.TokenEndpointAuth == "" {
		client.TokenEndpointAuth = "client_secret_basic"
	}

	if err := h.store.RegisterClient(r.Context(), client); err != nil {
		h.logger.Error("failed to register client", "err", err)
		WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "failed to store client")
		return
	}

	h.logger.Info("registered oauth client", "client_id", client.ClientID, "name", client.Name)
	writeJSON(w, http.StatusCreated, client)
}

// AuthorizeCallback handles POST /authorize/callback. The caller is a
// front-end already holding an authenticated session; this endpoint trusts
// it and mints a one-time authorization code for the named client.
func (h *Handler) AuthorizeCallback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "invalid JSON body")
		return
	}
	if req.ClientID == "" || req.RedirectURI == "" {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "client_id and redirect_uri are required")
		return
	}
	client, err := h.store.GetClient(r.Context(), req.ClientID)
	if err != nil {
		WriteOAuthError(w, http.StatusBadRequest, ErrUnauthorizedClient, "unknown client_id")
		return
	}
	registered := false
	for _, u := range client.RedirectURIs {
		if u == req.RedirectURI {
			registered = true
			break
		}
	}
	if !registered {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "redirect_uri not registered for this client")
		return
	}

	code, err := GenerateAuthorizationCode()
	if err != nil {
		WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "failed to generate code")
		return
	}
	authCode := &AuthorizationCode{
		Code:          code,
		ClientID:      req.ClientID,
		RedirectURI:   req.RedirectURI,
		Scope:         req.Scope,
		CodeChallenge: req.CodeChallenge,
		Method:        req.CodeChallengeMethod,
		ExpiresAt:     CalculateExpiration(AuthCodeTTLSeconds),
		Used:          false,
	}
	if err := h.store.StoreAuthCode(r.Context(), authCode); err != nil {
		h.logger.Error("failed to store authorization code", "err", err, "client_id", req.ClientID)
		WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "failed to store code")
		return
	}

	// redirect back with code (and state) appended
	u, err := url.Parse(req.RedirectURI)
	if err != nil {
		WriteOAuthError(w, http.StatusBadRequest, ErrInvalidRequest, "invalid redirect_uri")
		return
	}
	q := u.Query()
	q.Set("code", code)
	if req.State != "" {
		q.Set("state", req.State)
	}
	u.RawQuery = q.Encode()

	writeJSON(w, http.StatusOK, &CallbackResponse{RedirectURI: u.String()})
}

// Metadata handles GET /.well-known/oauth-authorization-server.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &ServerMetadata{
		Issuer:                 h.issuer,
		AuthorizationEndpoint:  h.issuer + "/authorize/callback",
		TokenEndpoint:          h.issuer + "/token",
		RegistrationEndpoint:   h.issuer + "/register",
		ResponseTypesSupported: []string{"code"},
		GrantTypesSupported:    []string{string(GrantTypeAuthorizationCode), string(GrantTypeRefreshToken)},
		TokenEndpointAuth:      []string{"client_secret_basic", "client_secret_post", "none"},
		CodeChallengeMethods:   []string{"S256", "plain"},
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
