package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/api/metrics"
	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	ordersTable = "orders"
)

// OrderService orchestrates the order lifecycle: checkout converts a cart
// into a persisted order, Transition moves it through the status machine,
// Cancel is the customer-facing shortcut gated on pre-fulfillment status.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	ledger   ports.InventoryLedger
	seq      ports.SequenceGenerator
	payment  ports.PaymentValidator
	shipping ports.ShippingQuoter
	audit    ports.AuditTrail
	idem     ports.IdempotencyStore
	log      zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	ledger ports.InventoryLedger,
	seq ports.SequenceGenerator,
	payment ports.PaymentValidator,
	shipping ports.ShippingQuoter,
	audit ports.AuditTrail,
	idem ports.IdempotencyStore,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		ledger:   ledger,
		seq:      seq,
		payment:  payment,
		shipping: shipping,
		audit:    audit,
		idem:     idem,
		log:      log,
	}
}

// Checkout runs the creation pipeline: snapshot lines, quote shipping,
// validate payment, reserve-and-debit stock, assign a sequence number,
// persist the order in AWAITING_PAYMENT, then audit. Payment is checked
// before any counter moves; any later failure re-credits the debit so a
// failed checkout leaves no partial state.
func (s *OrderService) Checkout(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutResult, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if replay, ok := s.replayIdempotent(ctx, input); ok {
			return replay, nil
		}
	}

	lines, itemsTotal, err := s.snapshotLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	shippingPrice, err := s.shipping.Quote(ctx, input.Shipping.City, input.Shipping.ZipCode)
	if err != nil {
		return nil, fmt.Errorf("shipping quote: %w", err)
	}
	total := itemsTotal + shippingPrice

	res, err := s.payment.Validate(ctx, input.PaymentMethod, total)
	if err != nil {
		return nil, fmt.Errorf("payment validation: %w", err)
	}
	if !res.Approved {
		metrics.CheckoutRejectionsTotal.WithLabelValues("payment_declined").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, res.Reason)
	}

	reservation := make([]ports.ReservationLine, len(input.Lines))
	for i, ln := range input.Lines {
		reservation[i] = ports.ReservationLine{ProductID: ln.ProductID, Quantity: ln.Quantity}
	}
	if err := s.ledger.ReserveAndDebit(ctx, reservation); err != nil {
		metrics.CheckoutRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	seq, err := s.seq.Next(ctx)
	if err != nil {
		s.releaseReservation(ctx, reservation)
		return nil, fmt.Errorf("assign sequence number: %w", err)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		SequenceNumber: seq,
		CustomerID:     input.CustomerID,
		Status:         domain.StatusAwaitingPayment,
		Lines:          lines,
		ItemsTotal:     itemsTotal,
		ShippingPrice:  shippingPrice,
		TotalAmount:    total,
		PaymentMethod:  input.PaymentMethod,
		Shipping: domain.ShippingSnapshot{
			Recipient: input.Shipping.Recipient,
			Address:   input.Shipping.Address,
			City:      input.Shipping.City,
			ZipCode:   input.Shipping.ZipCode,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.releaseReservation(ctx, reservation)
		s.log.Error().Err(err).Int64("sequence_number", seq).Msg("failed to persist order")
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if input.IdempotencyKey != "" {
		if markErr := s.idem.Mark(ctx, input.IdempotencyKey, seq); markErr != nil {
			s.log.Warn().Err(markErr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	s.audit.Create(input.CustomerID, ordersTable, fmt.Sprint(seq), map[string]any{
		"status":       string(order.Status),
		"items_total":  itemsTotal,
		"total_amount": total,
		"line_count":   len(lines),
	})

	metrics.OrdersCreatedTotal.WithLabelValues(input.PaymentMethod).Inc()
	s.log.Info().
		Int64("sequence_number", seq).
		Str("customer_id", input.CustomerID).
		Int64("total_cents", total).
		Msg("order created")

	return &ports.CheckoutResult{Order: order}, nil
}

// GetOrder retrieves a single order within the caller's visibility scope.
func (s *OrderService) GetOrder(ctx context.Context, input ports.GetOrderInput) (*domain.Order, error) {
	return s.orders.FindBySequence(ctx, input.SequenceNumber, input.CustomerID)
}

// ListOrders returns a page of orders. Customer callers are always scoped to
// their own orders by the non-empty CustomerID.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if input.Status != "" {
		if _, err := domain.ParseOrderStatus(input.Status); err != nil {
			return nil, err
		}
	}

	items, total, err := s.orders.List(ctx, ports.ListOrdersFilter{
		CustomerID: input.CustomerID,
		Status:     input.Status,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Transition validates and applies a status change. The repository write is
// guarded on the expected current status, so a concurrent transition loses
// deterministically. Side effects (stock restoration on cancellation, the
// audit entry, notification hooks) run only after the new status is durable.
func (s *OrderService) Transition(ctx context.Context, input ports.TransitionInput) (*domain.Order, error) {
	order, err := s.orders.FindBySequence(ctx, input.SequenceNumber, "")
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() || !order.Status.CanTransitionTo(input.NewStatus) {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, &domain.InvalidTransitionError{From: order.Status, To: input.NewStatus}
	}

	now := time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, order.SequenceNumber, order.Status, input.NewStatus, now); err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues("update_failed").Inc()
		return nil, err
	}

	oldStatus := order.Status
	order.Status = input.NewStatus
	order.UpdatedAt = now

	if input.NewStatus == domain.StatusCancelled {
		s.restoreOrderStock(ctx, order)
	}

	s.audit.StatusChange(input.ActorID, ordersTable, fmt.Sprint(order.SequenceNumber),
		string(oldStatus), string(input.NewStatus), input.Reason)

	s.runSideEffects(order, oldStatus)

	metrics.StatusTransitionsTotal.WithLabelValues(string(oldStatus), string(input.NewStatus)).Inc()
	s.log.Info().
		Int64("sequence_number", order.SequenceNumber).
		Str("from", string(oldStatus)).
		Str("to", string(input.NewStatus)).
		Str("actor_id", input.ActorID).
		Msg("order status changed")

	return order, nil
}

// Cancel applies the customer cancellation shortcut. The precondition is
// stricter than the transition table: only pre-fulfillment orders qualify.
func (s *OrderService) Cancel(ctx context.Context, seq int64, customerID, reason, actorID string) (*domain.Order, error) {
	order, err := s.orders.FindBySequence(ctx, seq, customerID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Cancellable() {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, &domain.InvalidTransitionError{From: order.Status, To: domain.StatusCancelled}
	}
	return s.Transition(ctx, ports.TransitionInput{
		SequenceNumber: seq,
		NewStatus:      domain.StatusCancelled,
		Reason:         reason,
		ActorID:        actorID,
	})
}

// snapshotLines freezes name and unit price per line and sums the items
// total. Inactive products are rejected here, before payment, and checked
// again by the ledger under lock.
func (s *OrderService) snapshotLines(ctx context.Context, input []ports.CartLineInput) ([]domain.OrderLine, int64, error) {
	lines := make([]domain.OrderLine, len(input))
	var itemsTotal int64
	for i, ln := range input {
		p, err := s.products.Get(ctx, ln.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", i, err)
		}
		if p.Status != domain.ProductActive {
			return nil, 0, &domain.ProductInactiveError{ProductID: ln.ProductID}
		}
		subtotal := p.UnitPrice * ln.Quantity
		lines[i] = domain.OrderLine{
			ProductID:         p.ID,
			NameSnapshot:      p.Name,
			UnitPriceSnapshot: p.UnitPrice,
			Quantity:          ln.Quantity,
			Subtotal:          subtotal,
		}
		itemsTotal += subtotal
	}
	return lines, itemsTotal, nil
}

// replayIdempotent returns the order a previous checkout with the same key
// produced, if any. Store errors degrade to processing the request normally.
func (s *OrderService) replayIdempotent(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutResult, bool) {
	seq, found, err := s.idem.Lookup(ctx, input.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency lookup failed, processing anyway")
		return nil, false
	}
	if !found {
		return nil, false
	}
	order, err := s.orders.FindBySequence(ctx, seq, input.CustomerID)
	if err != nil {
		s.log.Warn().Err(err).Int64("sequence_number", seq).Msg("idempotent order lookup failed, processing anyway")
		return nil, false
	}
	s.log.Info().Str("idempotency_key", input.IdempotencyKey).Int64("sequence_number", seq).Msg("idempotent replay")
	return &ports.CheckoutResult{Order: order, AlreadyExisted: true}, true
}

// releaseReservation re-credits a debit when a step after it failed.
func (s *OrderService) releaseReservation(ctx context.Context, lines []ports.ReservationLine) {
	for _, ln := range collapse(lines) {
		if err := s.ledger.Restore(ctx, ln.ProductID, ln.Quantity); err != nil {
			s.log.Error().Err(err).
				Str("product_id", ln.ProductID).
				Int64("quantity", ln.Quantity).
				Msg("failed to release reservation after aborted checkout")
		}
	}
}

// restoreOrderStock re-credits every line of a cancelled order, merging lines
// that reference the same product. Failures are logged for retry; the status
// change is already durable, so nothing rolls back here.
func (s *OrderService) restoreOrderStock(ctx context.Context, order *domain.Order) {
	reservation := make([]ports.ReservationLine, len(order.Lines))
	for i, ln := range order.Lines {
		reservation[i] = ports.ReservationLine{ProductID: ln.ProductID, Quantity: ln.Quantity}
	}
	for _, ln := range collapse(reservation) {
		if err := s.ledger.Restore(ctx, ln.ProductID, ln.Quantity); err != nil {
			s.log.Error().Err(err).
				Int64("sequence_number", order.SequenceNumber).
				Str("product_id", ln.ProductID).
				Int64("quantity", ln.Quantity).
				Msg("stock restoration failed, needs retry")
		}
	}
}

// runSideEffects executes status-specific follow-ups. These are stubs: the
// real notification channels live outside this service.
func (s *OrderService) runSideEffects(order *domain.Order, from domain.OrderStatus) {
	switch order.Status {
	case domain.StatusPaid:
		s.log.Info().Int64("sequence_number", order.SequenceNumber).Msg("payment confirmed, notifying fulfillment")
	case domain.StatusShipped:
		s.log.Info().Int64("sequence_number", order.SequenceNumber).Msg("order shipped, notifying customer")
	case domain.StatusReturned:
		s.log.Info().Int64("sequence_number", order.SequenceNumber).Msg("return registered, refund pending review")
	}
}

func validateCheckout(input ports.CheckoutInput) error {
	if input.CustomerID == "" {
		return fmt.Errorf("%w: missing customer", domain.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	for i, ln := range input.Lines {
		if ln.ProductID == "" {
			return fmt.Errorf("%w: line %d missing product", domain.ErrValidation, i)
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity must be positive", domain.ErrValidation, i)
		}
	}
	if input.PaymentMethod == "" {
		return fmt.Errorf("%w: missing payment method", domain.ErrValidation)
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrProductInactive):
		return "product_inactive"
	default:
		return "reserve_failed"
	}
}
