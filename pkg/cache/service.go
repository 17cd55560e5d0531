package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cinebook/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// Service is the read-through cache used by the catalog. Availability and
// seat locks never go through here; they read Redis directly.
type Service interface {
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error
	DeletePattern(ctx context.Context, pattern string) error
}

type service struct {
	client *redis.Client
	log    *logger.Logger
}

func NewService(client *redis.Client) Service {
	return &service{client: client, log: logger.GetDefault()}
}

// GetOrSet fills dest from the cache, falling back to fetcher on a miss.
// Cache failures never fail the request: a broken cache degrades to a
// fetch, and a failed refill is logged and forgotten.
func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	err := s.get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.WarnWithContext(ctx, "cache read failed, fetching from source", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	data, err := fetcher()
	if err != nil {
		return err
	}

	if err := s.set(ctx, key, data, ttl); err != nil {
		s.log.WarnWithContext(ctx, "cache refill failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	// Round-trip through JSON so dest gets the same shape a cache hit would
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal fetched data: %w", err)
	}
	return json.Unmarshal(raw, dest)
}

// DeletePattern drops every key matching pattern. Used for invalidation
// after admin writes, so the key count is small.
func (s *service) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("cache keys error: %w", err)
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache delete pattern error: %w", err)
		}
	}

	return nil
}

func (s *service) get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *service) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
