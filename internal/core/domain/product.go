package domain

import (
	"errors"
	"fmt"
	"time"
)

// ProductStatus marks whether a product may appear in new orders.
type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the catalog entry plus its stock counter. The core mutates
// AvailableQuantity only through the inventory ledger; all other fields belong
// to the catalog CRUD surface.
type Product struct {
	ID                string        `json:"id" bson:"_id,omitempty"`
	Name              string        `json:"name" bson:"name"`
	UnitPrice         int64         `json:"unit_price_cents" bson:"unit_price_cents"`
	AvailableQuantity int64         `json:"available_quantity" bson:"available_quantity"`
	Status            ProductStatus `json:"status" bson:"status"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

// InsufficientStockError names the offending product and the shortfall.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ProductInactiveError rejects a line referencing a deactivated product.
type ProductInactiveError struct {
	ProductID string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %s is inactive", e.ProductID)
}

func (e *ProductInactiveError) Is(target error) bool { return target == ErrProductInactive }
