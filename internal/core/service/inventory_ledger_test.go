package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub product repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	debitErr map[string]error // per-product: DebitStock returns this error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[string]*domain.Product),
		debitErr: make(map[string]error),
	}
}

func (r *stubProductRepo) seed(id string, price, stock int64, status domain.ProductStatus) {
	now := time.Now().UTC()
	r.products[id] = &domain.Product{
		ID:                id,
		Name:              "product " + id,
		UnitPrice:         price,
		AvailableQuantity: stock,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (r *stubProductRepo) stock(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].AvailableQuantity
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.products[p.ID] = &clone
	return &clone, nil
}

func (r *stubProductRepo) Get(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, _ ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) SetStatus(_ context.Context, id string, status domain.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Status = status
	return nil
}

// DebitStock mirrors the real conditional write: active and enough units.
func (r *stubProductRepo) DebitStock(_ context.Context, id string, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.debitErr[id]; ok {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Status != domain.ProductActive || p.AvailableQuantity < qty {
		return domain.ErrInsufficientStock
	}
	p.AvailableQuantity -= qty
	return nil
}

func (r *stubProductRepo) RestoreStock(_ context.Context, id string, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.AvailableQuantity += qty
	return nil
}

// ---------------------------------------------------------------------------
// ReserveAndDebit tests
// ---------------------------------------------------------------------------

func TestInventoryLedger_ReserveAndDebit_Success(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 10, domain.ProductActive)
	repo.seed("p2", 500, 5, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.stock("p1"); got != 7 {
		t.Errorf("p1 stock: expected 7, got %d", got)
	}
	if got := repo.stock("p2"); got != 3 {
		t.Errorf("p2 stock: expected 3, got %d", got)
	}
}

func TestInventoryLedger_ReserveAndDebit_AllOrNothing(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 10, domain.ProductActive)
	repo.seed("p2", 500, 1, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 2}, // short by 1
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	// Nothing moved: the short line failed validation before any debit.
	if got := repo.stock("p1"); got != 10 {
		t.Errorf("p1 stock must be untouched, got %d", got)
	}
	if got := repo.stock("p2"); got != 1 {
		t.Errorf("p2 stock must be untouched, got %d", got)
	}
}

func TestInventoryLedger_ReserveAndDebit_InactiveProduct(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 10, domain.ProductActive)
	repo.seed("p2", 500, 10, domain.ProductInactive)
	ledger := NewInventoryLedger(repo, discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrProductInactive) {
		t.Fatalf("expected product inactive error, got %v", err)
	}
	if got := repo.stock("p1"); got != 10 {
		t.Errorf("p1 stock must be untouched, got %d", got)
	}
}

func TestInventoryLedger_ReserveAndDebit_UnknownProduct(t *testing.T) {
	repo := newStubProductRepo()
	ledger := NewInventoryLedger(repo, discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "missing", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestInventoryLedger_ReserveAndDebit_EmptyReservation(t *testing.T) {
	ledger := NewInventoryLedger(newStubProductRepo(), discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInventoryLedger_ReserveAndDebit_MergesDuplicateLines(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 3, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	// Two lines of the same product: 2+2 > 3 must fail as a whole.
	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p1", Quantity: 2},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("duplicate lines must be summed before validation, got %v", err)
	}
	if got := repo.stock("p1"); got != 3 {
		t.Errorf("p1 stock must be untouched, got %d", got)
	}
}

func TestInventoryLedger_ReserveAndDebit_CompensatesPartialFailure(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 10, domain.ProductActive)
	repo.seed("p2", 500, 10, domain.ProductActive)
	repo.debitErr["p2"] = errors.New("write concern timeout")
	ledger := NewInventoryLedger(repo, discardLogger)

	err := ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 4},
	})
	if err == nil {
		t.Fatal("expected error from failing debit")
	}

	// p1 was debited first (ascending id order) and must be re-credited.
	if got := repo.stock("p1"); got != 10 {
		t.Errorf("p1 debit must be compensated, got stock %d", got)
	}
	if got := repo.stock("p2"); got != 10 {
		t.Errorf("p2 stock must be untouched, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Oversell race
// ---------------------------------------------------------------------------

func TestInventoryLedger_LastUnit_ExactlyOneWinner(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 1, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
				{ProductID: "p1", Quantity: 1},
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Errorf("loser must see insufficient stock, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("exactly one checkout must win the last unit, got %d", succeeded)
	}
	if got := repo.stock("p1"); got != 0 {
		t.Errorf("stock must end at 0, got %d", got)
	}
}

func TestInventoryLedger_OppositeLineOrder_NoDeadlock(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 1000, domain.ProductActive)
	repo.seed("p2", 500, 1000, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	// Orders listing the same two products in opposite order must not
	// deadlock: both lock in ascending product-id order.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 1},
			})
		}()
		go func() {
			defer wg.Done()
			_ = ledger.ReserveAndDebit(context.Background(), []ports.ReservationLine{
				{ProductID: "p2", Quantity: 1},
				{ProductID: "p1", Quantity: 1},
			})
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reservations deadlocked")
	}

	if got := repo.stock("p1"); got != 900 {
		t.Errorf("p1 stock: expected 900, got %d", got)
	}
	if got := repo.stock("p2"); got != 900 {
		t.Errorf("p2 stock: expected 900, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Restore
// ---------------------------------------------------------------------------

func TestInventoryLedger_Restore(t *testing.T) {
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 2, domain.ProductActive)
	ledger := NewInventoryLedger(repo, discardLogger)

	if err := ledger.Restore(context.Background(), "p1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.stock("p1"); got != 5 {
		t.Errorf("expected stock 5 after restore, got %d", got)
	}
}

func TestInventoryLedger_Restore_InactiveProductStillCredits(t *testing.T) {
	// Cancelling an order whose product was deactivated in the meantime must
	// still return the units.
	repo := newStubProductRepo()
	repo.seed("p1", 1000, 0, domain.ProductInactive)
	ledger := NewInventoryLedger(repo, discardLogger)

	if err := ledger.Restore(context.Background(), "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.stock("p1"); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
}
