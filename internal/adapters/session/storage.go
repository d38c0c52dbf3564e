// Package session adapts Redis for fiber's session and limiter middleware.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Key prefixes and lifetimes
const (
	SessionPrefix = "sess:"
	LimiterPrefix = "limiter:"
	SessionTTL    = 7 * 24 * time.Hour
)

const opTimeout = 3 * time.Second

// Storage implements fiber.Storage on a Redis client. Every key is stored
// under a fixed prefix so sessions and limiter counters can share a database.
type Storage struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

var _ fiber.Storage = (*Storage)(nil)

// NewStorage creates a prefixed storage. defaultTTL applies when fiber
// passes a zero expiration.
func NewStorage(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *Storage {
	return &Storage{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (s *Storage) key(k string) string {
	return s.prefix + k
}

// Get returns nil, nil when the key does not exist
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = s.defaultTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.Del(ctx, s.key(key)).Err()
}

// Reset removes every key under the prefix
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the client is owned by the caller
func (s *Storage) Close() error {
	return nil
}
