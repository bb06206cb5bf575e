package ports

import (
	"context"
	"time"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// ListOrdersFilter carries all query parameters for listing orders.
// CustomerID is always enforced by the service layer for customer callers.
type ListOrdersFilter struct {
	CustomerID string    // empty = no filter (staff); non-empty = scoped to customer
	Status     string    // optional: filter by order status
	DateFrom   time.Time // optional: created_at >= DateFrom
	DateTo     time.Time // optional: created_at <= DateTo
	Page       int       // 1-based
	Limit      int       // max rows per page (capped at 100 by service)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// FindBySequence retrieves an order by its sequence number. When customerID
	// is non-empty, the query is additionally filtered by customer_id.
	FindBySequence(ctx context.Context, seq int64, customerID string) (*domain.Order, error)
	// UpdateStatus sets status and updated_at only when the stored status still
	// equals from. Returns domain.ErrInvalidTransition when the guard fails
	// (a concurrent transition won) and domain.ErrOrderNotFound when the order
	// does not exist.
	UpdateStatus(ctx context.Context, seq int64, from, to domain.OrderStatus, at time.Time) error
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
}
