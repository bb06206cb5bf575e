package ports

import (
	"context"

	"github.com/lojinha/storefront-api/internal/core/domain"
)

// AuthService covers both authentication surfaces: customers get opaque
// session tokens backed by the in-process session store, staff get JWTs.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (string, *domain.Customer, error)
	Logout(token string)
	// LogoutAll destroys every session belonging to the customer.
	LogoutAll(customerID string)
	// ResolveSession maps a bearer token to a customer id, refreshing the
	// sliding-expiry window. Expired and unknown tokens are indistinguishable.
	ResolveSession(token string) (string, bool)

	StaffLogin(ctx context.Context, username, password string) (string, *domain.StaffUser, error)
	StaffRegister(ctx context.Context, username, password, role string) (*domain.StaffUser, error)
}
