package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps checkout Idempotency-Key values to the sequence
// number of the order they created. Keys expire after idempotencyTTL, which
// bounds how long a client can replay a checkout.
// Key format: checkout:<idempotency_key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the sequence number recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	seq, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: bad value %q: %w", val, err)
	}
	return seq, true, nil
}

// Mark records that key produced the order with sequence number seq.
func (s *IdempotencyStore) Mark(ctx context.Context, key string, seq int64) error {
	return s.client.Set(ctx, s.key(key), strconv.FormatInt(seq, 10), idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(idempotencyKey string) string {
	return "checkout:" + idempotencyKey
}
