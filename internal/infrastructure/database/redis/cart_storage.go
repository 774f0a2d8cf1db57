package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// CartStorage persists cart payloads as plain Redis strings. Keys are
// written without expiration; a cart only goes away when cleared.
type CartStorage struct {
	rdb redis.UniversalClient
}

// NewCartStorage wraps any go-redis client
func NewCartStorage(rdb redis.UniversalClient) *CartStorage {
	return &CartStorage{rdb: rdb}
}

// Get implements cart.Storage
func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements cart.Storage
func (s *CartStorage) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}
