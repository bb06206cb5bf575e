package ports

import "context"

// IdempotencyStore maps checkout Idempotency-Key headers to the sequence
// number of the order they created, so a retried request replays the original
// order instead of debiting stock twice.
type IdempotencyStore interface {
	// Lookup returns the sequence number recorded for key, or found=false.
	Lookup(ctx context.Context, key string) (seq int64, found bool, err error)
	Mark(ctx context.Context, key string, seq int64) error
}
