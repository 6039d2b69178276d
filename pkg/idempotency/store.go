package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records keys that have already been handled so consumers can skip
// redelivered messages. Keys expire after ttl; the underlying aggregate
// (the orders table unique index) remains the durable dedup authority.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Seen claims the key. It returns true when the key was already claimed by
// an earlier call, false when this caller is the first.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
