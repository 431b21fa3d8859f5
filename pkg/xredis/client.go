package xredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/facepass-lab/backend/config"
	"github.com/redis/go-redis/v9"
)

// ErrNil is returned by Get and GetObj if the key does not exist.
var ErrNil = redis.Nil

// Client is the small key-value surface used for session bookkeeping and the
// leaderboard cache. Keys are namespaced by the configured prefix.
type Client interface {
	Del(ctx context.Context, keys ...string) error
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetObj(ctx context.Context, key string, v any) error
	Incr(ctx context.Context, key string) (int64, error)
}

type client struct {
	rdb    *redis.Client
	prefix string
}

func NewClient(ctx context.Context, cfg config.RedisConfigs) (*client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        10,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &client{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

func (c *client) Close() error {
	return c.rdb.Close()
}

func (c *client) key(k string) string {
	if c.prefix == "" {
		return k
	}

	return c.prefix + ":" + k
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}

	if err := c.rdb.Del(ctx, prefixed...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	return nil
}

func (c *client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(b), ttl)
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, c.key(key)).Result()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

func (c *client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, c.key(key)).Result()
}
