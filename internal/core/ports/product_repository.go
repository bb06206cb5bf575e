package ports

import (
	"context"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// ListProductsFilter carries query parameters for the catalog listing.
type ListProductsFilter struct {
	Status string // optional: ACTIVE or INACTIVE
	Search string // optional: partial match on name
	Page   int    // 1-based
	Limit  int
}

// ProductRepository defines persistence for catalog entries and their stock
// counters. DebitStock and RestoreStock are the only stock mutations; the
// inventory ledger serializes calls per product on top of them.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	SetStatus(ctx context.Context, id string, status domain.ProductStatus) error
	// DebitStock decrements available_quantity by qty only if the product is
	// active and has at least qty units. Returns domain.ErrInsufficientStock
	// when the conditional write matches nothing.
	DebitStock(ctx context.Context, id string, qty int64) error
	// RestoreStock increments available_quantity by qty unconditionally.
	RestoreStock(ctx context.Context, id string, qty int64) error
}
