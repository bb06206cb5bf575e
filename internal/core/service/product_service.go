package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

const productsTable = "products"

// ProductService is the catalog surface: CRUD on products plus the staff
// restock operation, which goes through the inventory ledger so it shares
// the same per-product serialization as checkouts.
type ProductService struct {
	products ports.ProductRepository
	ledger   ports.InventoryLedger
	audit    ports.AuditTrail
	log      zerolog.Logger
}

func NewProductService(products ports.ProductRepository, ledger ports.InventoryLedger, audit ports.AuditTrail, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, ledger: ledger, audit: audit, log: log}
}

func (s *ProductService) Create(ctx context.Context, actorID, name string, unitPrice, initialStock int64) (*domain.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing product name", domain.ErrValidation)
	}
	if unitPrice <= 0 {
		return nil, fmt.Errorf("%w: unit price must be positive", domain.ErrValidation)
	}
	if initialStock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", domain.ErrValidation)
	}

	now := time.Now().UTC()
	p, err := s.products.Create(ctx, &domain.Product{
		Name:              name,
		UnitPrice:         unitPrice,
		AvailableQuantity: initialStock,
		Status:            domain.ProductActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Create(actorID, productsTable, p.ID, map[string]any{
		"name":       p.Name,
		"unit_price": p.UnitPrice,
		"stock":      p.AvailableQuantity,
	})
	s.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	return s.products.List(ctx, filter)
}

// Restock adds qty units through the ledger's restore path.
func (s *ProductService) Restock(ctx context.Context, actorID, id string, qty int64) (*domain.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", domain.ErrValidation)
	}
	if _, err := s.products.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ledger.Restore(ctx, id, qty); err != nil {
		return nil, err
	}

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Update(actorID, productsTable, id,
		map[string]any{"stock": p.AvailableQuantity - qty},
		map[string]any{"stock": p.AvailableQuantity})
	s.log.Info().Str("product_id", id).Int64("quantity", qty).Msg("product restocked")
	return p, nil
}

// SetStatus activates or deactivates a product. Deactivation does not touch
// existing orders; it only blocks new reservations.
func (s *ProductService) SetStatus(ctx context.Context, actorID, id string, status domain.ProductStatus) (*domain.Product, error) {
	if status != domain.ProductActive && status != domain.ProductInactive {
		return nil, fmt.Errorf("%w: unknown product status %q", domain.ErrValidation, status)
	}
	before, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.audit.Update(actorID, productsTable, id,
		map[string]any{"status": string(before.Status)},
		map[string]any{"status": string(status)})
	before.Status = status
	return before, nil
}
