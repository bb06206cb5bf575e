package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lojinha/storefront-api/internal/api/handler"
	"github.com/lojinha/storefront-api/internal/api/middleware"
	"github.com/lojinha/storefront-api/internal/core/domain"
	"github.com/lojinha/storefront-api/internal/core/ports"
)

// Deps carries everything the router needs to wire routes.
type Deps struct {
	AuthService  ports.AuthService
	OrderService ports.OrderService
	Catalog      handler.ProductCatalog
	Mongo        *mongo.Database
	Redis        *redis.Client
	JWTSecret    string
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	orderHandler := handler.NewOrderHandler(deps.OrderService)
	productHandler := handler.NewProductHandler(deps.Catalog)

	customerAuth := middleware.CustomerSession(deps.AuthService)
	staffAuth := middleware.StaffAuth(deps.JWTSecret)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)

	// --- Auth routes ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/logout", authHandler.Logout, customerAuth)
	e.POST("/v1/auth/logout_all", authHandler.LogoutAll, customerAuth)
	e.POST("/v1/auth/staff/login", authHandler.StaffLogin)

	// --- Public catalog ---
	e.GET("/v1/products", productHandler.List)
	e.GET("/v1/products/:id", productHandler.Get)

	// --- Customer orders ---
	orders := e.Group("/v1/orders", customerAuth)
	orders.POST("", orderHandler.Checkout)
	orders.GET("", orderHandler.List)
	orders.GET("/:sequence", orderHandler.Get)
	orders.POST("/:sequence/cancel", orderHandler.Cancel)

	// --- Staff surface ---
	staff := e.Group("/v1/staff", staffAuth, staffOnly)
	staff.GET("/orders", orderHandler.StaffList)
	staff.GET("/orders/:sequence", orderHandler.StaffGet)
	staff.PATCH("/orders/:sequence/status", orderHandler.StaffTransition)
	staff.POST("/products", productHandler.Create)
	staff.POST("/products/:id/restock", productHandler.Restock)
	staff.PATCH("/products/:id/status", productHandler.SetStatus)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
