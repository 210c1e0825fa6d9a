package cartui

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/redis"
)

// IdentityStore persists at most one cart id per storefront session.
// A missing id means "empty cart" and must never be treated as an
// error by callers.
type IdentityStore interface {
	CartID(ctx context.Context, sessionID string) (string, error)
	SetCartID(ctx context.Context, sessionID, cartID string) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryIdentityStore keeps cart ids in process. Used in tests and
// single-instance dev runs.
type MemoryIdentityStore struct {
	mu    sync.Mutex
	carts map[string]string
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{carts: map[string]string{}}
}

func (s *MemoryIdentityStore) CartID(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID], nil
}

func (s *MemoryIdentityStore) SetCartID(_ context.Context, sessionID, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cartID
	return nil
}

func (s *MemoryIdentityStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// RedisIdentityStore persists cart ids in Redis so sessions survive
// instance restarts. The TTL matches the upstream cart lifetime order
// of magnitude; an expired key simply reads as "no cart".
type RedisIdentityStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdentityStore(client *redis.Client, ttl time.Duration) (*RedisIdentityStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisIdentityStore{client: client, ttl: ttl}, nil
}

func (s *RedisIdentityStore) CartID(ctx context.Context, sessionID string) (string, error) {
	value, err := s.client.Get(ctx, s.client.CartSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading cart session")
	}
	return value, nil
}

func (s *RedisIdentityStore) SetCartID(ctx context.Context, sessionID, cartID string) error {
	if err := s.client.Set(ctx, s.client.CartSessionKey(sessionID), cartID, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing cart session")
	}
	return nil
}

func (s *RedisIdentityStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartSessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart session")
	}
	return nil
}
