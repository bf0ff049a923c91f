package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store keeps sessions between requests. Load returns nil when there is none.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

const sessionKeyPrefix = "wizard:"

// RedisStore keeps sessions as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode wizard session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.UserID.String(), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, sessionKeyPrefix+userID.String()).Err()
}

// MemoryStore is used when Redis is not configured. Sessions never expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	raw, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.UserID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}
