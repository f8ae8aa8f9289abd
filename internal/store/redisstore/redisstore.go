package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shopcart/internal/logging"
)

type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // prepended to every slot key, e.g. "shopcart:"
}

// Store keeps each slot as a plain Redis string.
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// Open connects and pings. A failed ping is returned; there is no
// fallback to another backend.
func Open(ctx context.Context, opt Options, logger *zap.Logger) (*Store, error) {
	logger = logging.OrNop(logger)
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}
	logger.Debug("redis slot store connected", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return &Store{client: client, prefix: opt.KeyPrefix, logger: logger}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set stores value without expiry; carts live until cleared externally.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	s.logger.Debug("slot written", zap.String("key", s.prefix+key), zap.Int("bytes", len(value)))
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
