package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type staffLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token    string            `json:"token,omitempty"`
	Customer *customerResponse `json:"customer,omitempty"`
}

type staffAuthResponse struct {
	Token string            `json:"token"`
	User  *domain.StaffUser `json:"user"`
}

// Register creates a new customer account.
//
// @Summary      Register a customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	customer, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{Customer: toCustomerResponse(customer)})
}

// Login authenticates a customer and opens a session.
//
// @Summary      Customer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, customer, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Customer: toCustomerResponse(customer)})
}

// Logout destroys the current session. Idempotent.
//
// @Summary      Customer logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("session_token").(string)
	h.authService.Logout(token)
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll destroys every session the caller holds.
//
// @Summary      Customer logout everywhere
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /v1/auth/logout_all [post]
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	customerID, err := ctxCustomerID(c)
	if err != nil {
		return err
	}
	h.authService.LogoutAll(customerID)
	return c.NoContent(http.StatusNoContent)
}

// StaffLogin authenticates a back-office user and returns a JWT.
//
// @Summary      Staff login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      staffLoginRequest  true  "Credentials"
// @Success      200   {object}  staffAuthResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/staff/login [post]
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	var req staffLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.StaffLogin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, staffAuthResponse{Token: token, User: user})
}

func toCustomerResponse(customer *domain.Customer) *customerResponse {
	if customer == nil {
		return nil
	}
	return &customerResponse{ID: customer.ID, Name: customer.Name, Email: customer.Email}
}
