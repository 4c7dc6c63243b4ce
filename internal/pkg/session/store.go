// internal/pkg/session/store.go
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTokenKey is the storage key the session token lives under.
const DefaultTokenKey = "token"

const storeTimeout = 5 * time.Second

// TokenStore is durable key/value storage for the session token. Load returns
// "" and a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// MemoryStore keeps the token in process memory. It does not survive restarts.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// tokenPersister mirrors the token field into a TokenStore. It looks at nothing
// but the token, so it does not care whether a login, register, logout or
// revalidation caused the change.
type tokenPersister struct {
	store  TokenStore
	logger *zap.Logger
}

func newTokenPersister(store TokenStore, logger *zap.Logger) *tokenPersister {
	return &tokenPersister{store: store, logger: logger}
}

func (p *tokenPersister) Observe(prev, next Snapshot) {
	if prev.Token == next.Token {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if next.Token != "" {
		if err := p.store.Save(ctx, next.Token); err != nil {
			p.logger.Error("failed to persist session token", zap.Error(err))
		}
		return
	}

	if err := p.store.Delete(ctx); err != nil {
		p.logger.Error("failed to remove session token", zap.Error(err))
	}
}
