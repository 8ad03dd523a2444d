// Package cache memoises encoded calculation results, in process with
// go-cache or shared through Redis.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
)

const DefaultTTL = 10 * time.Minute

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

type Memory struct {
	c *cache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{c: cache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.c.SetDefault(key, value)
}

func (m *Memory) Len() int {
	return m.c.ItemCount()
}

// Redis keeps entries under preKey with a TTL. Errors are logged and read
// as misses so a Redis outage only costs recomputation.
type Redis struct {
	cli    *redis.Client
	preKey string
	ttl    time.Duration
	logger l.Wrapper
}

func NewRedis(cli *redis.Client, preKey string, ttl time.Duration, logger l.Wrapper) *Redis {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		cli:    cli,
		preKey: preKey,
		ttl:    ttl,
		logger: logger.WithFields(l.StringField(l.ClsKey, "redisCache")),
	}
}

func (r *Redis) key(k string) string {
	return r.preKey + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.cli.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.WithFields(l.ErrorField(err), l.StringField("key", key)).Error("redis get")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.cli.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.logger.WithFields(l.ErrorField(err), l.StringField("key", key)).Error("redis set")
	}
}

// Open picks Redis when addr is set and reachable, otherwise an in-process
// cache.
func Open(ctx context.Context, addr string, ttl time.Duration, logger l.Wrapper) (Store, func() error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	if addr == "" {
		return NewMemory(ttl), func() error { return nil }
	}

	cli := redis.NewClient(&redis.Options{Addr: addr})
	if err := cli.Ping(ctx).Err(); err != nil {
		logger.WithFields(l.ErrorField(err), l.StringField("addr", addr)).Warn("redis unavailable, using memory cache")
		cli.Close()
		return NewMemory(ttl), func() error { return nil }
	}
	return NewRedis(cli, "stratum:beam", ttl, logger), cli.Close
}
