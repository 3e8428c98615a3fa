package kvstore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/samber/oops"
)

// Redis implements Store on top of a Redis server
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance at url and verifies it answers a PING
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, oops.In("kvstore").With("context", "failed to parse redis url").Wrap(err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.In("kvstore").With("addr", opts.Addr, "context", "failed to ping redis").Wrap(err)
	}

	return &Redis{client: client}, nil
}

// SetNX issues a single SET NX with expiry so the marker and its TTL are written atomically
func (r *Redis) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, oops.In("kvstore").With("key", key).Wrap(err)
	}
	return ok, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return oops.In("kvstore").With("key", key).Wrap(err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", errors.ErrKeyNotFound
	}
	if err != nil {
		return "", oops.In("kvstore").With("key", key).Wrap(err)
	}
	return value, nil
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, oops.In("kvstore").With("key", key).Wrap(err)
	}
	return ok, nil
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
