package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionResolver maps an opaque bearer token to a customer id, refreshing
// the sliding expiry window. It is satisfied by the auth service.
type SessionResolver interface {
	ResolveSession(token string) (string, bool)
}

// CustomerSession authenticates storefront customers. Expired and unknown
// tokens produce the same 401 so the response never reveals whether a token
// ever existed.
func CustomerSession(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			customerID, ok := resolver.ResolveSession(token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set("customer_id", customerID)
			c.Set("session_token", token)

			return next(c)
		}
	}
}
