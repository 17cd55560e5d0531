package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockNotFound is returned by LockStore.Get when no lock exists for the key
var ErrLockNotFound = errors.New("seat lock not found")

// LockStore is the minimal key-value capability the reservation manager
// needs. The create-if-absent operation must be atomic; everything else
// builds on that single guarantee.
type LockStore interface {
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
}

// RedisLockStore implements LockStore on a Redis client. SET NX EX gives the
// atomic create-if-absent; key expiry gives the TTL safety net.
type RedisLockStore struct {
	client *redis.Client
}

func NewRedisLockStore(client *redis.Client) *RedisLockStore {
	return &RedisLockStore{client: client}
}

func (s *RedisLockStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock store setnx failed: %w", err)
	}
	return ok, nil
}

func (s *RedisLockStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrLockNotFound
		}
		return "", fmt.Errorf("lock store get failed: %w", err)
	}
	return val, nil
}

func (s *RedisLockStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("lock store delete failed: %w", err)
	}
	return nil
}

func (s *RedisLockStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock store expire failed: %w", err)
	}
	return ok, nil
}

// KeysMatching enumerates keys with SCAN rather than KEYS so a large keyspace
// cannot stall the server.
func (s *RedisLockStore) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("lock store scan failed: %w", err)
	}
	return keys, nil
}
