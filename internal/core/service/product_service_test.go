package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

func newProductService() (*ProductService, *stubProductRepo, *stubAudit) {
	repo := newStubProductRepo()
	audit := &stubAudit{}
	ledger := NewInventoryLedger(repo, discardLogger)
	return NewProductService(repo, ledger, audit, discardLogger), repo, audit
}

func TestProductService_Create(t *testing.T) {
	svc, _, audit := newProductService()

	p, err := svc.Create(context.Background(), "staff_1", "Coffee Beans", 1990, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.ProductActive {
		t.Errorf("new product must be ACTIVE, got %s", p.Status)
	}
	if p.AvailableQuantity != 50 {
		t.Errorf("expected stock 50, got %d", p.AvailableQuantity)
	}

	call, ok := audit.last()
	if !ok || call.kind != "create" || call.actorID != "staff_1" {
		t.Errorf("expected create audit entry, got %+v", call)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	svc, _, _ := newProductService()

	cases := []struct {
		name  string
		pname string
		price int64
		stock int64
	}{
		{"missing name", "", 100, 1},
		{"zero price", "x", 0, 1},
		{"negative price", "x", -5, 1},
		{"negative stock", "x", 100, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "staff_1", tc.pname, tc.price, tc.stock); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProductService_Restock(t *testing.T) {
	svc, repo, audit := newProductService()
	repo.seed("p1", 1000, 2, domain.ProductActive)

	p, err := svc.Restock(context.Background(), "staff_1", "p1", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AvailableQuantity != 10 {
		t.Errorf("expected stock 10, got %d", p.AvailableQuantity)
	}

	call, _ := audit.last()
	if call.kind != "update" {
		t.Errorf("expected update audit entry, got %+v", call)
	}
}

func TestProductService_Restock_Validation(t *testing.T) {
	svc, repo, _ := newProductService()
	repo.seed("p1", 1000, 2, domain.ProductActive)

	if _, err := svc.Restock(context.Background(), "staff_1", "p1", 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for zero quantity, got %v", err)
	}
	if _, err := svc.Restock(context.Background(), "staff_1", "missing", 5); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProductService_SetStatus(t *testing.T) {
	svc, repo, _ := newProductService()
	repo.seed("p1", 1000, 2, domain.ProductActive)

	p, err := svc.SetStatus(context.Background(), "staff_1", "p1", domain.ProductInactive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.ProductInactive {
		t.Errorf("expected INACTIVE, got %s", p.Status)
	}

	stored, _ := repo.Get(context.Background(), "p1")
	if stored.Status != domain.ProductInactive {
		t.Error("status change must persist")
	}

	if _, err := svc.SetStatus(context.Background(), "staff_1", "p1", "RETIRED"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestProductService_List_ClampsPagination(t *testing.T) {
	svc, repo, _ := newProductService()
	repo.seed("p1", 1000, 2, domain.ProductActive)

	_, total, err := svc.List(context.Background(), ports.ListProductsFilter{Page: -1, Limit: 100000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
}
