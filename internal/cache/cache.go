// Package cache stores parse results in Redis keyed by document hash, so a
// resume uploaded twice is only extracted once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/types"
)

// KeyPrefix namespaces parse results in a shared Redis instance.
const KeyPrefix = "parse:"

// ParseCache implements screening.ParseCache on top of Redis.
type ParseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewParseCache wraps an existing client. A zero ttl stores entries without expiry.
func NewParseCache(client *redis.Client, ttl time.Duration) *ParseCache {
	return &ParseCache{client: client, ttl: ttl}
}

// Connect dials Redis with cfg and verifies the connection.
func Connect(ctx context.Context, cfg config.RedisConfig) (*ParseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewParseCache(client, cfg.TTL), nil
}

// Key returns the Redis key for a document hash.
func Key(hash string) string {
	return KeyPrefix + hash
}

// Get returns the cached result for hash, or nil, nil on a miss.
func (c *ParseCache) Get(ctx context.Context, hash string) (*types.ParseResult, error) {
	data, err := c.client.Get(ctx, Key(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get parse result %s: %w", hash, err)
	}
	return decode(data)
}

// Set stores result under hash.
func (c *ParseCache) Set(ctx context.Context, hash string, result *types.ParseResult) error {
	data, err := encode(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(hash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set parse result %s: %w", hash, err)
	}
	return nil
}

// Ping checks if the Redis connection is alive.
func (c *ParseCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *ParseCache) Close() error {
	return c.client.Close()
}

func encode(result *types.ParseResult) ([]byte, error) {
	if result == nil {
		return nil, errors.New("cannot cache a nil parse result")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal parse result: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*types.ParseResult, error) {
	var result types.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached parse result: %w", err)
	}
	return &result, nil
}
