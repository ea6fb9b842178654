package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the production implementation of the KV interface, backed by
// Redis. Values are stored as JSON strings without expiry: donation receipts
// and quiz state must survive restarts.
type RedisKV struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisKV creates a Redis-backed KV store. Keys are namespaced under the
// given prefix so the service can share an instance.
func NewRedisKV(client redis.UniversalClient, prefix string) *RedisKV {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		trimmed = "givechain"
	}
	trimmed = strings.TrimSuffix(trimmed, ":")

	return &RedisKV{client: client, prefix: trimmed}
}

func (r *RedisKV) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// Get returns the raw JSON stored under key, or ErrKeyNotFound.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put marshals value to JSON and stores it without expiry.
func (r *RedisKV) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
