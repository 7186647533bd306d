package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

var pingClient = func(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Init initializes the Redis client
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return pingClient(ctx, client)
}

// Close closes the Redis client
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// SetClient sets the Redis client (used for testing)
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// IsNil reports whether err means the key was missing
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Set stores a key-value pair with expiration
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// Del removes a key
func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// SetNX sets a key only if it does not exist
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}

// IncrWindow increments a counter and starts its expiry window on first hit.
// It returns the new count and the time left in the window.
func IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	ttl, err := client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// a negative ttl means the key has no expiry yet
	if n == 1 || ttl < 0 {
		if err := client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return n, ttl, nil
}

// Count returns the current value of a counter key, zero when missing
func Count(ctx context.Context, key string) (int64, time.Duration, error) {
	n, err := client.Get(ctx, key).Int64()
	if err != nil {
		if IsNil(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	ttl, err := client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	return n, ttl, nil
}
