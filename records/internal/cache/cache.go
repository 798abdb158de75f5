// Package cache provides a Redis-backed cache for token validation results,
// cutting repeated signature checks on hot paths.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

var ErrMiss = errors.New("cache miss")

// TokenCache stores validation results keyed by token digest. A nil
// *TokenCache is a valid no-op cache, so callers never branch on whether
// caching is enabled.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, url string, ttl time.Duration) (*TokenCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Minute
	}

	return &TokenCache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TokenCache{client: client, ttl: ttl}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "dialdesk:token:" + hex.EncodeToString(sum[:])
}

func (c *TokenCache) Get(ctx context.Context, token string) (*models.ValidateResponse, error) {
	if c == nil {
		return nil, ErrMiss
	}

	data, err := c.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var resp models.ValidateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode cached validation: %w", err)
	}
	return &resp, nil
}

func (c *TokenCache) Set(ctx context.Context, token string, resp *models.ValidateResponse) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode validation: %w", err)
	}

	if err := c.client.Set(ctx, tokenKey(token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

func (c *TokenCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
