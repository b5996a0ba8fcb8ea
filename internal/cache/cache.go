// Package cache caches property list pages per team.
//
// Every team has a generation counter that is part of each list key. Invalidate
// bumps the counter, so all previously cached pages of that team stop being read
// and expire on their own TTL. Get returns the key it looked up and Set writes to
// that key only, so a page loaded before an invalidation lands under the old
// generation and is never read again.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // key hashing only
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/config"
)

const keyPrefix = "properties"

// ListCache stores list results keyed by team and query parameters.
type ListCache interface {
	// Get loads the cached page for params into dest and reports whether it was found.
	// The returned key identifies the page at the generation that was read.
	Get(ctx context.Context, teamID string, params map[string]string, dest any) (string, bool, error)

	// Set stores value under a key returned by Get. An empty key is ignored.
	Set(ctx context.Context, key string, value any) error

	// Invalidate drops every cached page of teamID.
	Invalidate(ctx context.Context, teamID string) error

	// Ping checks the backing store.
	Ping(ctx context.Context) error

	// Close releases the backing connection.
	Close() error
}

// New returns a Redis-backed cache when enabled, and a no-op cache otherwise.
func New(cfg config.CacheConfig, logger *zap.SugaredLogger) ListCache {
	if !cfg.Enabled {
		logger.Infow("property list cache disabled")
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	logger.Infow("property list cache enabled", "addr", cfg.Addr, "db", cfg.DB, "ttl", cfg.TTL)
	return NewRedis(client, cfg.TTL, logger)
}

// Redis is a ListCache over a go-redis client.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedis creates a Redis list cache.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Get loads the cached page for params into dest and reports whether it was found.
func (r *Redis) Get(ctx context.Context, teamID string, params map[string]string, dest any) (string, bool, error) {
	key, err := r.pageKey(ctx, teamID, params)
	if err != nil {
		return "", false, err
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return key, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Warnw("discarding undecodable cache entry", "key", key, "error", err)
		return key, false, nil
	}
	return key, true, nil
}

// Set stores value under a key returned by Get. An empty key is ignored.
func (r *Redis) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached page of teamID.
func (r *Redis) Invalidate(ctx context.Context, teamID string) error {
	gen, err := r.client.Incr(ctx, generationKey(teamID)).Result()
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	r.logger.Debugw("property list cache invalidated", "team_id", teamID, "generation", gen)
	return nil
}

// Ping checks the backing store.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the backing connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) pageKey(ctx context.Context, teamID string, params map[string]string) (string, error) {
	gen, err := r.client.Get(ctx, generationKey(teamID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache generation: %w", err)
	}
	return PageKey(teamID, gen, params), nil
}

func generationKey(teamID string) string {
	return keyPrefix + ":" + teamID + ":gen"
}

// PageKey builds the key of one list page. Parameter order does not matter.
func PageKey(teamID string, generation int64, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String())) //nolint:gosec // key hashing only
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, teamID, generation, hex.EncodeToString(hash[:]))
}

// Noop is a ListCache that never stores anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string, map[string]string, any) (string, bool, error) {
	return "", false, nil
}

// Set discards value.
func (Noop) Set(context.Context, string, any) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(context.Context, string) error { return nil }

// Ping always succeeds.
func (Noop) Ping(context.Context) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
