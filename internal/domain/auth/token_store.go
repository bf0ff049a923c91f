package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore remembers issued refresh tokens by hash. Lookup fails with
// ErrInvalidRefreshToken for unknown or expired entries.
type TokenStore interface {
	Store(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, hash string) (uuid.UUID, error)
	Delete(ctx context.Context, hash string) error
}

const refreshKeyPrefix = "refresh:"

// RedisTokenStore keeps refresh tokens under refresh:<hash> with the token TTL.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Store(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+hash, userID.String(), ttl).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, hash string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, refreshKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (s *RedisTokenStore) Delete(ctx context.Context, hash string) error {
	return s.client.Del(ctx, refreshKeyPrefix+hash).Err()
}

type memoryToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemoryTokenStore is used when Redis is not configured. Tokens do not
// survive a restart.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken), now: time.Now}
}

func (s *MemoryTokenStore) Store(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[hash] = memoryToken{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Lookup(ctx context.Context, hash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[hash]
	if !ok {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	if s.now().After(tok.expiresAt) {
		delete(s.tokens, hash)
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return tok.userID, nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, hash)
	return nil
}
