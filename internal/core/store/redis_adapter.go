package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter implements DocumentStore with one Redis hash per collection.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter creates a new Redis document store adapter.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisAdapter(redisURL string) (*RedisAdapter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisAdapter{client: redis.NewClient(opts)}, nil
}

// Put stores a document as a hash field.
func (r *RedisAdapter) Put(ctx context.Context, collection, key string, doc []byte) error {
	if err := r.client.HSet(ctx, collection, key, doc).Err(); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, key, err)
	}
	return nil
}

// Create stores a document with HSETNX.
func (r *RedisAdapter) Create(ctx context.Context, collection, key string, doc []byte) (bool, error) {
	created, err := r.client.HSetNX(ctx, collection, key, doc).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create %s/%s: %w", collection, key, err)
	}
	return created, nil
}

// Fetch reads a single hash field.
func (r *RedisAdapter) Fetch(ctx context.Context, collection, key string) ([]byte, error) {
	val, err := r.client.HGet(ctx, collection, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	return val, nil
}

// List reads a whole hash.
func (r *RedisAdapter) List(ctx context.Context, collection string) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, collection).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return toBytes(vals), nil
}

// ListMany reads several hashes in a single pipeline.
func (r *RedisAdapter) ListMany(ctx context.Context, collections []string) ([]map[string][]byte, error) {
	if len(collections) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(collections))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, collection := range collections {
			cmds[i] = pipe.HGetAll(ctx, collection)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %d collections: %w", len(collections), err)
	}

	out := make([]map[string][]byte, len(cmds))
	for i, cmd := range cmds {
		out[i] = toBytes(cmd.Val())
	}
	return out, nil
}

// Remove deletes the hash field and the child hashes in one MULTI/EXEC block.
func (r *RedisAdapter) Remove(ctx context.Context, collection, key string, children ...string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, collection, key)
		if len(children) > 0 {
			pipe.Del(ctx, children...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", collection, key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

func toBytes(vals map[string]string) map[string][]byte {
	out := make(map[string][]byte, len(vals))
	for k, v := range vals {
		out[k] = []byte(v)
	}
	return out
}
