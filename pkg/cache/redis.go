package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get and GetJSON when the key does not exist
var ErrMiss = errors.New("cache: miss")

// Client wraps a Redis connection. Every key is stored under Prefix.
type Client struct {
	Redis  *redis.Client
	Prefix string
}

// DefaultPrefix namespaces this service's keys in a shared Redis
const DefaultPrefix = "leaddesk:"

// NewClient connects to Redis and verifies the connection
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	log.Println("✅ Redis connected")

	return &Client{Redis: client, Prefix: DefaultPrefix}, nil
}

func (c *Client) key(k string) string {
	return c.Prefix + k
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Ping checks that Redis answers
func (c *Client) Ping(ctx context.Context) error {
	return c.Redis.Ping(ctx).Err()
}

// Set sets a key-value pair with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Redis.Set(ctx, c.key(key), value, expiration).Err()
}

// Get returns the value of key, or ErrMiss
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Redis.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

// SetJSON stores v encoded as JSON
func (c *Client) SetJSON(ctx context.Context, key string, v any, expiration time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, b, expiration)
}

// GetJSON decodes the JSON value of key into dst, or returns ErrMiss
func (c *Client) GetJSON(ctx context.Context, key string, dst any) error {
	val, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

// Delete deletes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.Redis.Del(ctx, full...).Err()
}

// Exists checks if a key exists
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.Redis.Exists(ctx, c.key(key)).Result()
	return count > 0, err
}

// DeletePattern deletes all keys matching a glob pattern using SCAN
func (c *Client) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	deleted := 0

	for {
		keys, next, err := c.Redis.Scan(ctx, cursor, c.key(pattern), 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		log.Printf("🗑️  Deleted %d keys matching pattern: %s", deleted, pattern)
	}
	return nil
}

// TTL returns the time-to-live for a key
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.Redis.TTL(ctx, c.key(key)).Result()
}
