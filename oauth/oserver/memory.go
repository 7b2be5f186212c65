package oserver

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var _ Store = &MemoryStore{}

// MemoryStore keeps all OAuth state in process memory. State lives for the
// lifetime of the process only; a restart clears everything. A background
// sweeper removes authorization codes and access tokens whose expires_at has
// passed, so abandoned entries do not pile up between lookups.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string]*OAuthClient
	codes   map[string]*AuthorizationCode
	tokens  map[string]*AccessToken

	sweepInterval time.Duration
	stopSweep     chan struct{}
	stopOnce      sync.Once
	logger        *slog.Logger
}

// NewMemoryStore creates a store sweeping expired entries every minute.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithInterval(time.Minute)
}

// NewMemoryStoreWithInterval creates a store with a custom sweep interval.
func NewMemoryStoreWithInterval(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		clients:       make(map[string]*OAuthClient),
		codes:         make(map[string]*AuthorizationCode),
		tokens:        make(map[string]*AccessToken),
		sweepInterval: interval,
		stopSweep:     make(chan struct{}),
		logger:        slog.Default(),
	}
	go s.sweepLoop()
	return s
}

// SetLogger replaces the default logger.
func (s *MemoryStore) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// RegisterClient inserts the client keyed by client_id. Last write wins on a
// collision; collisions are cryptographically implausible given the entropy
// of generated IDs.
func (s *MemoryStore) RegisterClient(_ context.Context, client *OAuthClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ClientID] = client
	return nil
}

func (s *MemoryStore) GetClient(_ context.Context, clientID string) (*OAuthClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) StoreAuthCode(_ context.Context, code *AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.Code] = code
	return nil
}

func (s *MemoryStore) GetAuthCode(_ context.Context, code string) (*AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok || c.ExpiresAt <= time.Now().UnixMilli() {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ConsumeAuthCode marks the code used under the same lock as the lookup, so
// two concurrent exchanges cannot both succeed.
func (s *MemoryStore) ConsumeAuthCode(_ context.Context, code string) (*AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok || c.Used || c.ExpiresAt <= time.Now().UnixMilli() {
		return nil, ErrNotFound
	}
	c.Used = true
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) StoreAccessToken(_ context.Context, token *AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

// GetAccessToken returns ErrNotFound for absent and expired tokens alike,
// deleting an expired entry on the way out. The check-then-delete runs under
// one lock acquisition.
func (s *MemoryStore) GetAccessToken(_ context.Context, token string) (*AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	if t.ExpiresAt <= time.Now().UnixMilli() {
		delete(s.tokens, token)
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Close stops the background sweeper. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopSweep) })
	return nil
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

// sweep deletes every code and token whose deadline has passed. Deleting an
// already-absent key is a no-op, never an error.
func (s *MemoryStore) sweep() {
	now := time.Now().UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, c := range s.codes {
		if c.ExpiresAt <= now {
			delete(s.codes, k)
			removed++
		}
	}
	for k, t := range s.tokens {
		if t.ExpiresAt <= now {
			delete(s.tokens, k)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired oauth entries", "removed", removed)
	}
}
