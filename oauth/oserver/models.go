package oserver

type GrantType string

const GrantTypeAuthorizationCode GrantType = "authorization_code"
const GrantTypeRefreshToken GrantType = "refresh_token"

// stores client metadata from dynamic registration
type OAuthClient struct {
	ClientID          string   `json:"client_id"`
	ClientSecret      string   `json:"client_secret,omitempty"`
	Name              string   `json:"client_name"`
	RedirectURIs      []string `json:"redirect_uris"`
	GrantTypes        []string `json:"grant_types"`
	ResponseTypes     []string `json:"response_types"`
	TokenEndpointAuth string   `json:"token_endpoint_auth_method,omitempty"`
	IssuedAt          int64    `json:"client_id_issued_at"`      // unix seconds
	SecretExpiresAt   int64    `json:"client_secret_expires_at"` // 0 = never
}

// one-time proof that a user authenticated for a client
type AuthorizationCode struct {
	Code          string `json:"code"`
	ClientID      string `json:"client_id"`
	RedirectURI   string `json:"redirect_uri"`
	Scope         string `json:"scope,omitempty"`
	CodeChallenge string `json:"code_challenge,omitempty"`
	Method        string `json:"code_challenge_method,omitempty"`
	ExpiresAt     int64  `json:"expires_at"` // unix milliseconds
	Used          bool   `json:"used"`
}

// bearer credential presented on protected requests
type AccessToken struct {
	Token     string `json:"access_token"`
	ClientID  string `json:"client_id"`
	Scope     string `json:"scope,omitempty"`
	ExpiresAt int64  `json:"expires_at"` // unix milliseconds
}

// /register
type RegistrationRequest struct {
	RedirectURIs      []string `json:"redirect_uris"`
	ClientName        string   `json:"client_name,omitempty"`
	GrantTypes        []string `json:"grant_types,omitempty"`
	ResponseTypes     []string `json:"response_types,omitempty"`
	TokenEndpointAuth string   `json:"token_endpoint_auth_method,omitempty"`
}

// /authorize/callback
type CallbackRequest struct {
	ClientID            string `json:"client_id"`
	RedirectURI         string `json:"redirect_uri"`
	Scope               string `json:"scope,omitempty"`
	State               string `json:"state,omitempty"`
	CodeChallenge       string `json:"code_challenge,omitempty"`        // PKCE
	CodeChallengeMethod string `json:"code_challenge_method,omitempty"` // "S256" or "plain"
}
type CallbackResponse struct {
	RedirectURI string `json:"redirect_uri"`
}

// /token
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	CodeVerifier string `json:"code_verifier,omitempty"` // PKCE, verified upstream
}
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"` // "Bearer"
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// /.well-known/oauth-authorization-server
type ServerMetadata struct {
	Issuer                 string   `json:"issuer"`
	AuthorizationEndpoint  string   `json:"authorization_endpoint"`
	TokenEndpoint          string   `json:"token_endpoint"`
	RegistrationEndpoint   string   `json:"registration_endpoint"`
	ResponseTypesSupported []string `json:"response_types_supported"`
	GrantTypesSupported    []string `json:"grant_types_supported"`
	TokenEndpointAuth      []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethods   []string `json:"code_challenge_methods_supported"`
}

// AuthContext is the request-scoped record of a validated (or passed-through)
// credential. For tokens not found in the local store, ClientID and Scopes are
// empty and ExpiresAt is zero; authority decisions are deferred to the
// downstream API the token is forwarded to.
type AuthContext struct {
	Token     string
	ClientID  string
	Scopes    []string
	ExpiresAt int64 // unix milliseconds, 0 when unknown
}
