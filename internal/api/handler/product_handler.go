package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// ProductCatalog is the catalog surface the handler delegates to.
type ProductCatalog interface {
	Create(ctx context.Context, actorID, name string, unitPrice, initialStock int64) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error)
	Restock(ctx context.Context, actorID, id string, qty int64) (*domain.Product, error)
	SetStatus(ctx context.Context, actorID, id string, status domain.ProductStatus) (*domain.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
}

func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type createProductRequest struct {
	Name         string `json:"name"             validate:"required"`
	UnitPrice    int64  `json:"unit_price_cents" validate:"required,gt=0"`
	InitialStock int64  `json:"initial_stock"    validate:"min=0"`
}

type restockRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type productStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type productResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	UnitPrice         int64     `json:"unit_price_cents"`
	AvailableQuantity int64     `json:"available_quantity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type listProductsResponse struct {
	Data       []productResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/products — the public catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        status  query     string  false  "ACTIVE or INACTIVE"
// @Param        search  query     string  false  "Partial name match"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listProductsResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := ports.ListProductsFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	products, total, err := h.catalog.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]productResponse, len(products))
	for i, p := range products {
		items[i] = toProductResponse(p)
	}
	return c.JSON(http.StatusOK, listProductsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total: total,
			Page:  filter.Page,
			Limit: filter.Limit,
		},
	})
}

// Get handles GET /v1/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id  path      string  true  "Product id"
// @Success      200 {object}  productResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Create handles POST /v1/staff/products.
//
// @Summary      Create a product (staff)
// @Tags         staff-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/staff/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	actorID, err := ctxStaffActor(c)
	if err != nil {
		return err
	}

	p, err := h.catalog.Create(c.Request().Context(), actorID, req.Name, req.UnitPrice, req.InitialStock)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

// Restock handles POST /v1/staff/products/:id/restock.
//
// @Summary      Add stock to a product (staff)
// @Tags         staff-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      restockRequest  true  "Units to add"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/staff/products/{id}/restock [post]
func (h *ProductHandler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	actorID, err := ctxStaffActor(c)
	if err != nil {
		return err
	}

	p, err := h.catalog.Restock(c.Request().Context(), actorID, c.Param("id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// SetStatus handles PATCH /v1/staff/products/:id/status.
//
// @Summary      Activate or deactivate a product (staff)
// @Tags         staff-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      productStatusRequest  true  "Target status"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/staff/products/{id}/status [patch]
func (h *ProductHandler) SetStatus(c echo.Context) error {
	var req productStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	actorID, err := ctxStaffActor(c)
	if err != nil {
		return err
	}

	p, err := h.catalog.SetStatus(c.Request().Context(), actorID, c.Param("id"), domain.ProductStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:                p.ID,
		Name:              p.Name,
		UnitPrice:         p.UnitPrice,
		AvailableQuantity: p.AvailableQuantity,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
}
