package ports

import (
	"context"
	"time"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// CartLineInput is one line of the cart being checked out.
type CartLineInput struct {
	ProductID string
	Quantity  int64
}

// ShippingInput holds the destination captured at checkout.
type ShippingInput struct {
	Recipient string
	Address   string
	City      string
	ZipCode   string
}

// CheckoutInput carries all data needed to convert a cart into an order.
type CheckoutInput struct {
	CustomerID     string
	Lines          []CartLineInput
	Shipping       ShippingInput
	PaymentMethod  string
	IdempotencyKey string
}

// CheckoutResult is returned by the service after creating an order.
type CheckoutResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched a previous
	// checkout and the original order is being replayed.
	AlreadyExisted bool
}

// GetOrderInput identifies an order and the caller's visibility scope.
type GetOrderInput struct {
	SequenceNumber int64
	// CustomerID non-empty scopes the lookup to that customer (customers only
	// see their own orders); empty means staff access.
	CustomerID string
}

// TransitionInput carries a status-change request.
type TransitionInput struct {
	SequenceNumber int64
	NewStatus      domain.OrderStatus
	Reason         string
	ActorID        string
}

// ListOrdersInput carries all parameters for the list endpoint.
type ListOrdersInput struct {
	CustomerID string
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService owns the order lifecycle: checkout, status transitions, and
// the customer cancellation shortcut.
type OrderService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	GetOrder(ctx context.Context, input GetOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	Transition(ctx context.Context, input TransitionInput) (*domain.Order, error)
	// Cancel is Transition to CANCELLED restricted to pre-fulfillment orders;
	// customerID scopes the lookup when non-empty.
	Cancel(ctx context.Context, seq int64, customerID, reason, actorID string) (*domain.Order, error)
}
