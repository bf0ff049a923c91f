package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matcha/matcha-api/internal/pkg/geoip"
)

const (
	cacheKeyPrefix = "geoip:"
	cacheTTL       = 24 * time.Hour
)

// Cache keeps IP lookups between requests. Get returns nil on a miss.
type Cache interface {
	Get(ctx context.Context, ip string) (*geoip.Location, error)
	Set(ctx context.Context, ip string, loc *geoip.Location) error
}

// RedisCache stores lookups as JSON under geoip:<ip>.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, ip string) (*geoip.Location, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+ip).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var loc geoip.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *RedisCache) Set(ctx context.Context, ip string, loc *geoip.Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+ip, raw, cacheTTL).Err()
}
