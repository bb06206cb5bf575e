package ports

import "context"

// PaymentResult is the outcome of a synchronous payment validation.
type PaymentResult struct {
	Approved bool
	Reason   string // populated when declined
}

// PaymentValidator is the external payment collaborator, called once per
// checkout before any stock is committed. No retries at this layer.
type PaymentValidator interface {
	Validate(ctx context.Context, method string, amountCents int64) (PaymentResult, error)
}

// ShippingQuoter prices delivery for a destination. The heuristics live
// outside the core; the checkout only consumes the quoted cents.
type ShippingQuoter interface {
	Quote(ctx context.Context, city, zipCode string) (int64, error)
}
