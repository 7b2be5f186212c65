package oserver

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	tokenByteLength  = 32
	secretByteLength = 48

	// authorization codes live for ten minutes
	AuthCodeTTLSeconds = 600

	// client_id values carry a fixed prefix ahead of the random part
	ClientIDPrefix = "client_"
)

// GenerateSecureToken returns a URL-safe base64 encoding of n
// cryptographically secure random bytes.
func GenerateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oserver: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateClientSecret returns a longer random string for high-value secrets.
func GenerateClientSecret() (string, error) {
	return GenerateSecureToken(secretByteLength)
}

func GenerateAuthorizationCode() (string, error) {
	return GenerateSecureToken(tokenByteLength)
}

func GenerateAccessToken() (string, error) {
	return GenerateSecureToken(tokenByteLength)
}

// CalculateExpiration returns now + ttlSeconds in unix milliseconds, the unit
// used for every expires_at comparison in this package.
func CalculateExpiration(ttlSeconds int64) int64 {
	return time.Now().UnixMilli() + ttlSeconds*1000
}
