package ports

import "context"

// ReservationLine is one product/quantity pair of a stock reservation.
type ReservationLine struct {
	ProductID string
	Quantity  int64
}

// InventoryLedger guards stock counters. ReserveAndDebit is all-or-nothing
// across every line of an order: either all counters are decremented or none.
type InventoryLedger interface {
	ReserveAndDebit(ctx context.Context, lines []ReservationLine) error
	// Restore re-credits units after a cancellation or return. It is not
	// capped: restoring more than was ever debited is accepted.
	Restore(ctx context.Context, productID string, qty int64) error
}
