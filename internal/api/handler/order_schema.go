package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type cartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"   validate:"required,gt=0"`
}

type shippingRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Address   string `json:"address"   validate:"required"`
	City      string `json:"city"      validate:"required"`
	ZipCode   string `json:"zip_code"  validate:"required"`
}

type checkoutRequest struct {
	Lines         []cartLineRequest `json:"lines"          validate:"required,min=1,dive"`
	Shipping      shippingRequest   `json:"shipping"       validate:"required"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=PIX CARD BOLETO"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type orderLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price_cents"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal_cents"`
}

type shippingResponse struct {
	Recipient string `json:"recipient"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
}

type orderResponse struct {
	OrderNumber    string              `json:"order_number"`
	SequenceNumber int64               `json:"sequence_number"`
	Status         string              `json:"status"`
	Lines          []orderLineResponse `json:"lines"`
	ItemsTotal     int64               `json:"items_total_cents"`
	ShippingPrice  int64               `json:"shipping_price_cents"`
	TotalAmount    int64               `json:"total_amount_cents"`
	PaymentMethod  string              `json:"payment_method"`
	Shipping       shippingResponse    `json:"shipping"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// orderSummaryResponse is the lightweight item used in list responses.
// It intentionally omits the lines to keep payloads small.
type orderSummaryResponse struct {
	OrderNumber    string    `json:"order_number"`
	SequenceNumber int64     `json:"sequence_number"`
	Status         string    `json:"status"`
	TotalAmount    int64     `json:"total_amount_cents"`
	PaymentMethod  string    `json:"payment_method"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listOrdersResponse struct {
	Data       []orderSummaryResponse `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}
