// Package cache provides a Redis client wrapper for short-lived values.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

const clientName = "competency-compass"

// Options configures a connection.
type Options struct {
	URL    string
	Prefix string
	// Timeout bounds dialing and every command. Zero means 3s.
	Timeout time.Duration
}

// Cache wraps a Redis client and namespaces its keys.
type Cache struct {
	Client *redis.Client
	prefix string
}

// ParseURL turns a redis:// or rediss:// URL into client options.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, errors.New("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	opts.ClientName = clientName
	return opts, nil
}

// New connects and pings once so a bad address fails at startup.
func New(ctx context.Context, o Options) (*Cache, error) {
	ro, err := ParseURL(o.URL)
	if err != nil {
		return nil, err
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ro.DialTimeout = timeout
	ro.ReadTimeout = timeout
	ro.WriteTimeout = timeout

	c := &Cache{Client: redis.NewClient(ro), prefix: o.Prefix}
	if err := c.HealthCheck(ctx); err != nil {
		c.Client.Close()
		return nil, err
	}
	return c, nil
}

// Key returns the namespaced form of key.
func (c *Cache) Key(key string) string {
	return c.prefix + key
}

// Put stores value under key for ttl.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.Client.Set(ctx, c.Key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Fetch returns the value stored under key, or ErrMiss.
func (c *Cache) Fetch(ctx context.Context, key string) ([]byte, error) {
	b, err := c.Client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck pings the server.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging cache: %w", err)
	}
	return nil
}
