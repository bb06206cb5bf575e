package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Checkout handles POST /v1/orders — converts the caller's cart into an order.
//
// @Summary      Create an order from a cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate checkouts"
// @Param        body             body      checkoutRequest  true   "Cart contents"
// @Success      201              {object}  orderResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	customerID, err := ctxCustomerID(c)
	if err != nil {
		return err
	}
	idempotencyKey := c.Request().Header.Get("Idempotency-Key")

	result, err := h.service.Checkout(c.Request().Context(), toCheckoutInput(req, customerID, idempotencyKey))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toOrderResponse(result.Order))
}

// Get handles GET /v1/orders/:sequence — customer view of a single order.
//
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        sequence  path      int  true  "Order sequence number"
// @Success      200       {object}  orderResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/orders/{sequence} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	seq, err := pathSequence(c)
	if err != nil {
		return err
	}
	customerID, err := ctxCustomerID(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), ports.GetOrderInput{
		SequenceNumber: seq,
		CustomerID:     customerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /v1/orders — the caller's own orders, newest first.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by order status"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listOrdersResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	customerID, err := ctxCustomerID(c)
	if err != nil {
		return err
	}
	input, err := listInput(c)
	if err != nil {
		return err
	}
	input.CustomerID = customerID

	result, err := h.service.ListOrders(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Cancel handles POST /v1/orders/:sequence/cancel — the customer shortcut,
// valid only while the order is pre-fulfillment.
//
// @Summary      Cancel one of the caller's orders
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sequence  path      int            true   "Order sequence number"
// @Param        body      body      cancelRequest  false  "Cancellation reason"
// @Success      200       {object}  orderResponse
// @Failure      404       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/orders/{sequence}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	seq, err := pathSequence(c)
	if err != nil {
		return err
	}
	customerID, err := ctxCustomerID(c)
	if err != nil {
		return err
	}

	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.service.Cancel(c.Request().Context(), seq, customerID, req.Reason, customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// --- Staff surface ---

// StaffGet handles GET /v1/staff/orders/:sequence — unscoped lookup.
//
// @Summary      Get any order (staff)
// @Tags         staff-orders
// @Produce      json
// @Security     BearerAuth
// @Param        sequence  path      int  true  "Order sequence number"
// @Success      200       {object}  orderResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/staff/orders/{sequence} [get]
func (h *OrderHandler) StaffGet(c echo.Context) error {
	seq, err := pathSequence(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), ports.GetOrderInput{SequenceNumber: seq})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// StaffList handles GET /v1/staff/orders — all orders, filterable.
//
// @Summary      List all orders (staff)
// @Tags         staff-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by order status"
// @Param        date_from  query     string  false  "created_at >= (RFC 3339)"
// @Param        date_to    query     string  false  "created_at <= (RFC 3339)"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listOrdersResponse
// @Router       /v1/staff/orders [get]
func (h *OrderHandler) StaffList(c echo.Context) error {
	input, err := listInput(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListOrders(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// StaffTransition handles PATCH /v1/staff/orders/:sequence/status — applies a
// status-machine transition with side effects.
//
// @Summary      Change an order's status (staff)
// @Tags         staff-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sequence  path      int                true  "Order sequence number"
// @Param        body      body      transitionRequest  true  "Target status and reason"
// @Success      200       {object}  orderResponse
// @Failure      404       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/staff/orders/{sequence}/status [patch]
func (h *OrderHandler) StaffTransition(c echo.Context) error {
	seq, err := pathSequence(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	newStatus, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return err
	}
	actorID, err := ctxStaffActor(c)
	if err != nil {
		return err
	}

	order, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		SequenceNumber: seq,
		NewStatus:      newStatus,
		Reason:         req.Reason,
		ActorID:        actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// --- helpers ---

func pathSequence(c echo.Context) (int64, error) {
	seq, err := strconv.ParseInt(c.Param("sequence"), 10, 64)
	if err != nil || seq <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order sequence number")
	}
	return seq, nil
}

func listInput(c echo.Context) (ports.ListOrdersInput, error) {
	input := ports.ListOrdersInput{
		Status: c.QueryParam("status"),
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	if raw := c.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "date_from must be RFC 3339")
		}
		input.DateFrom = t
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "date_to must be RFC 3339")
		}
		input.DateTo = t
	}
	return input, nil
}
