package handler

import (
	"fmt"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// formatOrderNumber renders the human-facing order code from the raw
// sequence number. The core only guarantees uniqueness and monotonicity of
// the integer; the display form lives here.
func formatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD-%08d", seq)
}

// --- Request → Service input ---

func toCheckoutInput(req checkoutRequest, customerID, idempotencyKey string) ports.CheckoutInput {
	lines := make([]ports.CartLineInput, len(req.Lines))
	for i, ln := range req.Lines {
		lines[i] = ports.CartLineInput{ProductID: ln.ProductID, Quantity: ln.Quantity}
	}
	return ports.CheckoutInput{
		CustomerID: customerID,
		Lines:      lines,
		Shipping: ports.ShippingInput{
			Recipient: req.Shipping.Recipient,
			Address:   req.Shipping.Address,
			City:      req.Shipping.City,
			ZipCode:   req.Shipping.ZipCode,
		},
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service result → HTTP response ---

func toOrderResponse(o *domain.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, ln := range o.Lines {
		lines[i] = orderLineResponse{
			ProductID: ln.ProductID,
			Name:      ln.NameSnapshot,
			UnitPrice: ln.UnitPriceSnapshot,
			Quantity:  ln.Quantity,
			Subtotal:  ln.Subtotal,
		}
	}
	return orderResponse{
		OrderNumber:    formatOrderNumber(o.SequenceNumber),
		SequenceNumber: o.SequenceNumber,
		Status:         string(o.Status),
		Lines:          lines,
		ItemsTotal:     o.ItemsTotal,
		ShippingPrice:  o.ShippingPrice,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		Shipping: shippingResponse{
			Recipient: o.Shipping.Recipient,
			Address:   o.Shipping.Address,
			City:      o.Shipping.City,
			ZipCode:   o.Shipping.ZipCode,
		},
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListOrdersResult) listOrdersResponse {
	items := make([]orderSummaryResponse, len(r.Items))
	for i, o := range r.Items {
		items[i] = orderSummaryResponse{
			OrderNumber:    formatOrderNumber(o.SequenceNumber),
			SequenceNumber: o.SequenceNumber,
			Status:         string(o.Status),
			TotalAmount:    o.TotalAmount,
			PaymentMethod:  o.PaymentMethod,
			CreatedAt:      o.CreatedAt.UTC(),
			UpdatedAt:      o.UpdatedAt.UTC(),
		}
	}
	return listOrdersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
