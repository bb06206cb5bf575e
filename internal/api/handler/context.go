package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxCustomerID extracts the customer id injected by the CustomerSession
// middleware. A missing id means the route was wired without the middleware;
// fail closed.
func ctxCustomerID(c echo.Context) (string, error) {
	customerID, _ := c.Get("customer_id").(string)
	if customerID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return customerID, nil
}

// ctxStaffActor extracts the staff identity injected by the StaffAuth
// middleware, for audit attribution.
func ctxStaffActor(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		// Older tokens carry only a username.
		username, _ := c.Get("username").(string)
		if username == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
		}
		return username, nil
	}
	return userID, nil
}
