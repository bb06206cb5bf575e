package domain

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	StatusPaid            OrderStatus = "PAID"
	StatusProcessing      OrderStatus = "PROCESSING"
	StatusShipped         OrderStatus = "SHIPPED"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusReturned        OrderStatus = "RETURNED"
)

// validTransitions defines the allowed state machine transitions.
// CANCELLED and RETURNED are terminal: they have no entry here.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusAwaitingPayment, StatusCancelled},
	StatusAwaitingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusShipped},
	StatusShipped:         {StatusDelivered},
	StatusDelivered:       {StatusReturned},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrProductInactive = errors.New("product inactive")
var ErrPaymentDeclined = errors.New("payment declined")
var ErrValidation = errors.New("validation failed")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Cancellable reports whether the customer-facing cancellation shortcut may run.
// This is stricter than the generic transition table: once payment has been
// confirmed, cancellation becomes a staff operation.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusAwaitingPayment
}

// ParseOrderStatus converts an external status string into a known OrderStatus.
// Unknown input is a validation error, never an internal panic.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(raw); s {
	case StatusPending, StatusAwaitingPayment, StatusPaid, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, raw)
}

// InvalidTransitionError carries the current and attempted status so the caller
// sees exactly which step was rejected.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// OrderLine is an immutable snapshot of one cart line taken at checkout time.
// Name and unit price are frozen so later catalog edits never rewrite history.
type OrderLine struct {
	ProductID         string `json:"product_id" bson:"product_id"`
	NameSnapshot      string `json:"name" bson:"name"`
	UnitPriceSnapshot int64  `json:"unit_price_cents" bson:"unit_price_cents"`
	Quantity          int64  `json:"quantity" bson:"quantity"`
	Subtotal          int64  `json:"subtotal_cents" bson:"subtotal_cents"`
}

// ShippingSnapshot freezes the destination captured at checkout.
type ShippingSnapshot struct {
	Recipient string `json:"recipient" bson:"recipient"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	ZipCode   string `json:"zip_code" bson:"zip_code"`
}

// Order is the core aggregate root. Monetary amounts are integer cents.
// After creation only Status and UpdatedAt change; orders are never deleted.
type Order struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	SequenceNumber int64            `json:"sequence_number" bson:"sequence_number"`
	CustomerID     string           `json:"customer_id" bson:"customer_id"`
	Status         OrderStatus      `json:"status" bson:"status"`
	Lines          []OrderLine      `json:"lines" bson:"lines"`
	ItemsTotal     int64            `json:"items_total_cents" bson:"items_total_cents"`
	ShippingPrice  int64            `json:"shipping_price_cents" bson:"shipping_price_cents"`
	TotalAmount    int64            `json:"total_amount_cents" bson:"total_amount_cents"`
	PaymentMethod  string           `json:"payment_method" bson:"payment_method"`
	Shipping       ShippingSnapshot `json:"shipping" bson:"shipping"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at"`
}
