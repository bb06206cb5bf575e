package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubResolver struct {
	sessions map[string]string // token -> customer id
	lastSeen string
}

func (r *stubResolver) ResolveSession(token string) (string, bool) {
	r.lastSeen = token
	id, ok := r.sessions[token]
	return id, ok
}

func TestCustomerSession_ValidToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{sessions: map[string]string{"tok-1": "cust_1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := CustomerSession(resolver)(func(c echo.Context) error {
		called = true
		if c.Get("customer_id") != "cust_1" {
			t.Fatalf("customer_id not set")
		}
		if c.Get("session_token") != "tok-1" {
			t.Fatalf("session_token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if resolver.lastSeen != "tok-1" {
		t.Fatalf("resolver must receive the bearer token, got %q", resolver.lastSeen)
	}
}

func TestCustomerSession_UnknownToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{sessions: map[string]string{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-or-unknown")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CustomerSession(resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCustomerSession_MissingHeader(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{sessions: map[string]string{"tok-1": "cust_1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CustomerSession(resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resolver.lastSeen != "" {
		t.Fatalf("resolver must not be called without a header")
	}
}
