// Package cache wraps Redis for login throttling, token revocation and the
// catalog list cache. A nil *Store is valid and behaves as an empty cache,
// so every feature here degrades to "off" when Redis is not configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection. An empty Addr disables it.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store wraps a Redis client. A nil *Store is valid and does nothing.
type Store struct {
	rdb *redis.Client
	log *slog.Logger
}

// Connect dials Redis and pings it. An empty address returns a nil Store.
func Connect(ctx context.Context, opts Options, log *slog.Logger) (*Store, error) {
	if opts.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return New(rdb, log), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{rdb: rdb, log: log}
}

// Enabled reports whether a Redis client is configured.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

// Ping checks the connection. A disabled store is always healthy.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}

func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
