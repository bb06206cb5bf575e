package ports

import "context"

// SequenceGenerator issues order sequence numbers. Next must be race-free:
// two concurrent checkouts never receive the same number. Gaps are fine,
// duplicates are not.
type SequenceGenerator interface {
	Next(ctx context.Context) (int64, error)
}
