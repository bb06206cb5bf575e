package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// AuthService implements both authentication surfaces. Customers register and
// log in against the customer repository and receive opaque tokens from the
// injected SessionStore. Staff log in against the staff repository and
// receive HS256 JWTs.
type AuthService struct {
	customers ports.CustomerRepository
	staff     ports.StaffRepository
	sessions  *SessionStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	customers ports.CustomerRepository,
	staff ports.StaffRepository,
	sessions *SessionStore,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		customers: customers,
		staff:     staff,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Customer, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.customers.Create(ctx, customer)
}

// Login verifies credentials and opens a session. The returned token is
// opaque; its lifetime is governed by the session store's sliding expiry.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(customer.ID)
	if err != nil {
		return "", nil, err
	}
	return token, customer, nil
}

// Logout destroys a single session. Idempotent.
func (s *AuthService) Logout(token string) {
	s.sessions.Remove(token)
}

// LogoutAll destroys every session the customer holds.
func (s *AuthService) LogoutAll(customerID string) {
	s.sessions.RemoveAllForCustomer(customerID)
}

// ResolveSession maps a bearer token to a customer id, refreshing the expiry
// window. A missing and an expired token produce the same negative answer.
func (s *AuthService) ResolveSession(token string) (string, bool) {
	return s.sessions.Validate(token)
}

func (s *AuthService) StaffRegister(ctx context.Context, username, password, role string) (*domain.StaffUser, error) {
	if username == "" || password == "" || role == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.StaffUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.staff.Create(ctx, user)
}

func (s *AuthService) StaffLogin(ctx context.Context, username, password string) (string, *domain.StaffUser, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.staff.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateStaffToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateStaffToken(user *domain.StaffUser) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"user_id":  user.ID,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
