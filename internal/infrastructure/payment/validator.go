package payment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/core/ports"
)

// StubValidator is the synchronous payment collaborator used until a real
// gateway is wired in. It approves any known method and declines the rest;
// there is no settlement and no retry.
type StubValidator struct {
	log zerolog.Logger
}

func NewStubValidator(log zerolog.Logger) *StubValidator {
	return &StubValidator{log: log}
}

var knownMethods = map[string]struct{}{
	"PIX":    {},
	"CARD":   {},
	"BOLETO": {},
}

func (v *StubValidator) Validate(ctx context.Context, method string, amountCents int64) (ports.PaymentResult, error) {
	if _, ok := knownMethods[method]; !ok {
		return ports.PaymentResult{Approved: false, Reason: "unsupported payment method " + method}, nil
	}
	if amountCents <= 0 {
		return ports.PaymentResult{Approved: false, Reason: "amount must be positive"}, nil
	}

	v.log.Debug().Str("method", method).Int64("amount_cents", amountCents).Msg("payment approved")
	return ports.PaymentResult{Approved: true}, nil
}
