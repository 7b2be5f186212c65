package oserver

import "context"

// MockStore provides customizable hooks for testing Store behavior.
type MockStore struct {
	RegisterClientFunc   func(ctx context.Context, client *OAuthClient) error
	GetClientFunc        func(ctx context.Context, clientID string) (*OAuthClient, error)
	StoreAuthCodeFunc    func(ctx context.Context, code *AuthorizationCode) error
	GetAuthCodeFunc      func(ctx context.Context, code string) (*AuthorizationCode, error)
	ConsumeAuthCodeFunc  func(ctx context.Context, code string) (*AuthorizationCode, error)
	StoreAccessTokenFunc func(ctx context.Context, token *AccessToken) error
	GetAccessTokenFunc   func(ctx context.Context, token string) (*AccessToken, error)
	CloseFunc            func() error
}

// Ensure MockStore implements Store
var _ Store = (*MockStore)(nil)

// RegisterClient calls RegisterClientFunc if set, otherwise returns nil
func (m *MockStore) RegisterClient(ctx context.Context, client *OAuthClient) error {
	if m.RegisterClientFunc != nil {
		return m.RegisterClientFunc(ctx, client)
	}
	return nil
}

// GetClient calls GetClientFunc if set, otherwise returns ErrNotFound
func (m *MockStore) GetClient(ctx context.Context, clientID string) (*OAuthClient, error) {
	if m.GetClientFunc != nil {
		return m.GetClientFunc(ctx, clientID)
	}
	return nil, ErrNotFound
}

// StoreAuthCode calls StoreAuthCodeFunc if set, otherwise returns nil
func (m *MockStore) StoreAuthCode(ctx context.Context, code *AuthorizationCode) error {
	if m.StoreAuthCodeFunc != nil {
		return m.StoreAuthCodeFunc(ctx, code)
	}
	return nil
}

// GetAuthCode calls GetAuthCodeFunc if set, otherwise returns ErrNotFound
func (m *MockStore) GetAuthCode(ctx context.Context, code string) (*AuthorizationCode, error) {
	if m.GetAuthCodeFunc != nil {
		return m.GetAuthCodeFunc(ctx, code)
	}
	return nil, ErrNotFound
}

// ConsumeAuthCode calls ConsumeAuthCodeFunc if set, otherwise returns ErrNotFound
func (m *MockStore) ConsumeAuthCode(ctx context.Context, code string) (*AuthorizationCode, error) {
	if m.ConsumeAuthCodeFunc != nil {
		return m.ConsumeAuthCodeFunc(ctx, code)
	}
	return nil, ErrNotFound
}

// StoreAccessToken calls StoreAccessTokenFunc if set, otherwise returns nil
func (m *MockStore) StoreAccessToken(ctx context.Context, token *AccessToken) error {
	if m.StoreAccessTokenFunc != nil {
		return m.StoreAccessTokenFunc(ctx, token)
	}
	return nil
}

// GetAccessToken calls GetAccessTokenFunc if set, otherwise returns ErrNotFound
func (m *MockStore) GetAccessToken(ctx context.Context, token string) (*AccessToken, error) {
	if m.GetAccessTokenFunc != nil {
		return m.GetAccessTokenFunc(ctx, token)
	}
	return nil, ErrNotFound
}

// Close calls CloseFunc if set, otherwise returns nil
func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
