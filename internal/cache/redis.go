package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/observability"
)

// Redis is a Store shared between gateway replicas. Values are JSON-encoded
// under "<prefix><user>:<kind>".
type Redis[V any] struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// DialRedis connects to addr and pings it.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedis wraps an open client. prefix namespaces the keys.
func NewRedis[V any](rdb *goredis.Client, prefix string, ttl time.Duration, log zerolog.Logger) *Redis[V] {
	return &Redis[V]{rdb: rdb, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis[V]) key(k Key) string { return r.prefix + k.String() }

func (r *Redis[V]) Get(ctx context.Context, key Key) (V, bool) {
	var zero V
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.log.Warn().Err(err).Str("key", r.key(key)).Msg("cache get failed")
		}
		observability.CountCacheLookup(false)
		return zero, false
	}
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		r.log.Warn().Err(err).Str("key", r.key(key)).Msg("cache entry undecodable")
		observability.CountCacheLookup(false)
		return zero, false
	}
	observability.CountCacheLookup(true)
	return v, true
}

func (r *Redis[V]) Set(ctx context.Context, key Key, v V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	raw, err := json.Marshal(v)
	if err != nil {
		r.log.Warn().Err(err).Str("key", r.key(key)).Msg("cache encode failed")
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", r.key(key)).Msg("cache set failed")
	}
}

func (r *Redis[V]) Invalidate(ctx context.Context, key Key) {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", r.key(key)).Msg("cache invalidate failed")
	}
}

func (r *Redis[V]) InvalidateUser(ctx context.Context, user domain.RecordID) {
	r.deleteMatching(ctx, r.prefix+user.String()+":*")
}

func (r *Redis[V]) Purge(ctx context.Context) {
	r.deleteMatching(ctx, r.prefix+"*")
}

func (r *Redis[V]) deleteMatching(ctx context.Context, pattern string) {
	iter := r.rdb.Scan(ctx, 0, pattern, 256).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn().Err(err).Str("pattern", pattern).Msg("cache delete failed")
	}
}
