package oserver

import "context"

// Store owns the OAuth client, authorization code, and access token
// collections. Implementations must be safe for concurrent use.
type Store interface {
	// --- clients ---
	RegisterClient(ctx context.Context, client *OAuthClient) error
	GetClient(ctx context.Context, clientID string) (*OAuthClient, error)

	// --- authorization codes ---
	StoreAuthCode(ctx context.Context, code *AuthorizationCode) error
	GetAuthCode(ctx context.Context, code string) (*AuthorizationCode, error)
	// ConsumeAuthCode returns the code and atomically marks it used.
	// A second consume of the same code fails with ErrNotFound.
	ConsumeAuthCode(ctx context.Context, code string) (*AuthorizationCode, error)

	// --- access tokens ---
	StoreAccessToken(ctx context.Context, token *AccessToken) error
	// GetAccessToken treats an expired entry exactly like an absent one,
	// purging it as a side effect.
	GetAccessToken(ctx context.Context, token string) (*AccessToken, error)

	// Close releases background resources (expiry sweeper).
	Close() error
}
