package oserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

type authContextKeyType struct{}

var authContextKey = authContextKeyType{}

// GetAuthContext returns the AuthContext attached by ValidateToken.
func GetAuthContext(ctx context.Context) (*AuthContext, error) {
	v := ctx.Value(authContextKey)
	if v == nil {
		return nil, errors.New("no auth context in request context")
	}
	ac, ok := v.(*AuthContext)
	if !ok {
		return nil, errors.New("invalid auth context type in request context")
	}
	return ac, nil
}

// WithAuthContext attaches an AuthContext, mainly for tests.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// ValidateToken gates protected handlers. It accepts "Bearer <token>"
// (case-insensitive prefix) or a bare token value in the Authorization
// header. Tokens found in the store yield an AuthContext populated from the
// stored record; tokens the store has never seen pass through with an empty
// AuthContext so the downstream API this subsystem fronts can judge them.
// That pass-through is deliberate: access tokens are normally minted by an
// upstream service this facade does not control. Do not tighten it to reject
// unknown tokens.
func (h *Handler) ValidateToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteOAuthError(w, http.StatusUnauthorized, ErrInvalidRequest, "missing Authorization header")
			return
		}
		token := header
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			token = header[len("bearer "):]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			WriteOAuthError(w, http.StatusUnauthorized, ErrInvalidRequest, "empty bearer token")
			return
		}

		ac := &AuthContext{Token: token}
		stored, err := h.store.GetAccessToken(r.Context(), token)
		switch {
		case err == nil:
			if stored.ExpiresAt <= time.Now().UnixMilli() {
				WriteOAuthError(w, http.StatusUnauthorized, ErrInvalidGrant, "access token expired")
				return
			}
			ac.ClientID = stored.ClientID
			ac.Scopes = strings.Fields(stored.Scope)
			ac.ExpiresAt = stored.ExpiresAt
		case errors.Is(err, ErrNotFound):
			// externally-issued token; forward as-is
			ac.Scopes = []string{}
		default:
			h.logger.Error("access token lookup failed", "err", err)
			WriteOAuthError(w, http.StatusInternalServerError, ErrServerError, "token lookup failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	})
}
