package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giygas/empirical-rx/interfaces"
	"github.com/redis/go-redis/v9"
)

// Compile-time check to ensure RedisSlot implements Slot
var _ interfaces.Slot = (*RedisSlot)(nil)

// RedisSlot stores the payload under a single Redis key
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot connects to the Redis server at url and checks it answers
func NewRedisSlot(ctx context.Context, url, key string) (*RedisSlot, error) {
	if url == "" {
		return nil, errors.New("REDIS_URL is required for the redis backend")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisSlot{client: client, key: key}, nil
}

func (s *RedisSlot) Name() string {
	return "redis:" + s.key
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return payload, nil
}

func (s *RedisSlot) Write(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSlot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
