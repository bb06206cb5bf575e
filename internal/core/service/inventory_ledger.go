package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// InventoryLedger serializes stock mutations per product so two checkouts
// competing for the last unit cannot both succeed. The check-then-debit
// sequence for a whole order runs while holding the mutex of every product it
// touches, acquired in ascending product-id order to rule out deadlock
// between orders that share products in opposite line order.
type InventoryLedger struct {
	products ports.ProductRepository
	log      zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewInventoryLedger(products ports.ProductRepository, log zerolog.Logger) *InventoryLedger {
	return &InventoryLedger{
		products: products,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding a single product's counter, creating it
// on first use. Locks are never evicted; the set is bounded by catalog size.
func (l *InventoryLedger) lockFor(productID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[productID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[productID] = m
	}
	return m
}

// collapse merges duplicate product ids and returns the reservation sorted by
// ascending product id (the global lock acquisition order).
func collapse(lines []ports.ReservationLine) []ports.ReservationLine {
	byProduct := make(map[string]int64, len(lines))
	for _, ln := range lines {
		byProduct[ln.ProductID] += ln.Quantity
	}
	out := make([]ports.ReservationLine, 0, len(byProduct))
	for id, qty := range byProduct {
		out = append(out, ports.ReservationLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ReserveAndDebit validates every line (product active, quantity available)
// before mutating any counter. If any line fails, no counter changes. On a
// persistence fault partway through the debits, the already-applied debits
// are compensated so the checkout leaves no partial state.
func (l *InventoryLedger) ReserveAndDebit(ctx context.Context, lines []ports.ReservationLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: empty reservation", domain.ErrValidation)
	}
	merged := collapse(lines)

	for _, ln := range merged {
		lock := l.lockFor(ln.ProductID)
		lock.Lock()
		defer lock.Unlock()
	}

	// Validate everything first: all-or-nothing across the whole order.
	for _, ln := range merged {
		p, err := l.products.Get(ctx, ln.ProductID)
		if err != nil {
			return fmt.Errorf("reserve: %w", err)
		}
		if p.Status != domain.ProductActive {
			return &domain.ProductInactiveError{ProductID: ln.ProductID}
		}
		if p.AvailableQuantity < ln.Quantity {
			return &domain.InsufficientStockError{
				ProductID: ln.ProductID,
				Requested: ln.Quantity,
				Available: p.AvailableQuantity,
			}
		}
	}

	for i, ln := range merged {
		if err := l.products.DebitStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			l.rollback(ctx, merged[:i])
			return fmt.Errorf("debit product %s: %w", ln.ProductID, err)
		}
	}
	return nil
}

// rollback re-credits the debits already applied when a later one failed.
// Runs while the product locks are still held.
func (l *InventoryLedger) rollback(ctx context.Context, applied []ports.ReservationLine) {
	for _, ln := range applied {
		if err := l.products.RestoreStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			l.log.Error().Err(err).
				Str("product_id", ln.ProductID).
				Int64("quantity", ln.Quantity).
				Msg("rollback of partial debit failed, counter is low")
		}
	}
}

// Restore re-credits qty units, used on cancellation and returns. There is no
// upper bound: the source system never capped restoration and callers rely on
// it never failing a business rule.
func (l *InventoryLedger) Restore(ctx context.Context, productID string, qty int64) error {
	lock := l.lockFor(productID)
	lock.Lock()
	defer lock.Unlock()

	if err := l.products.RestoreStock(ctx, productID, qty); err != nil {
		return fmt.Errorf("restore product %s: %w", productID, err)
	}
	return nil
}
