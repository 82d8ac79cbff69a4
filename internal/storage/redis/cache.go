package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache backs the query bus with Redis. Entries carry a TTL so a crashed
// invalidation never pins stale reads forever; Clear sweeps the key prefix.
type Cache struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

type Config struct {
	Addr   string
	Prefix string
	TTL    time.Duration
	Logger zerolog.Logger
}

func NewCache(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "query:"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{
		rdb:    rdb,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		logger: cfg.Logger.With().Str("component", "redis_cache").Logger(),
	}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return payload, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear deletes every key under the cache prefix. SCAN keeps it safe on a
// shared instance, unlike FLUSHDB.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
