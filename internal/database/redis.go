package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-discovery-web/internal/config"
)

// NewRedis creates a new Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("connected to Redis", "addr", cfg.Addr)
	return client, nil
}

// SessionStorage adapts a Redis client to the fiber.Storage contract so the
// session middleware can keep session data out of process memory.
type SessionStorage struct {
	rdb    *redis.Client
	prefix string
}

// NewSessionStorage creates a Redis-backed session storage.
func NewSessionStorage(rdb *redis.Client) *SessionStorage {
	return &SessionStorage{rdb: rdb, prefix: "session:"}
}

// Get returns the value for the given key, or nil if it does not exist.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	return s.GetWithContext(context.Background(), key)
}

// GetWithContext returns the value for the given key, or nil if it does not exist.
func (s *SessionStorage) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores the value under the given key with an expiry.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.SetWithContext(context.Background(), key, val, exp)
}

// SetWithContext stores the value under the given key with an expiry.
func (s *SessionStorage) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes the given key.
func (s *SessionStorage) Delete(key string) error {
	return s.DeleteWithContext(context.Background(), key)
}

// DeleteWithContext removes the given key.
func (s *SessionStorage) DeleteWithContext(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// Reset removes all session keys.
func (s *SessionStorage) Reset() error {
	return s.ResetWithContext(context.Background())
}

// ResetWithContext removes all session keys.
func (s *SessionStorage) ResetWithContext(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the underlying client.
func (s *SessionStorage) Close() error {
	return s.rdb.Close()
}
