package ports

import (
	"context"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// CustomerRepository defines persistence for storefront accounts.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
}

// StaffRepository defines persistence for back-office users.
type StaffRepository interface {
	Create(ctx context.Context, u *domain.StaffUser) (*domain.StaffUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.StaffUser, error)
}
