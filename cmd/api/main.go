package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lojinha/storefront-api/internal/api"
	"github.com/lojinha/storefront-api/internal/core/service"
	"github.com/lojinha/storefront-api/internal/infrastructure/config"
	mongodb "github.com/lojinha/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/lojinha/storefront-api/internal/infrastructure/db/redis"
	"github.com/lojinha/storefront-api/internal/infrastructure/payment"
	"github.com/lojinha/storefront-api/internal/infrastructure/shipping"
	"github.com/lojinha/storefront-api/pkg/logger"
)

const (
	sessionSweepInterval = 15 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// @title           Storefront API
// @version         1.0
// @description     Order lifecycle, inventory and customer session backend.
// @BasePath        /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	orderRepo := mongodb.NewOrderRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	sequenceRepo := mongodb.NewSequenceRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	staffRepo := mongodb.NewStaffRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"orders":    orderRepo.EnsureIndexes,
		"products":  productRepo.EnsureIndexes,
		"audit":     auditRepo.EnsureIndexes,
		"customers": customerRepo.EnsureIndexes,
		"staff":     staffRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	sessions := service.NewSessionStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	go sweepSessions(ctx, sessions, log)

	ledger := service.NewInventoryLedger(productRepo, logger.Component("inventory"))
	audit := service.NewAuditRecorder(auditRepo, cfg.AuditWorkers, logger.Component("audit"))
	defer audit.Close()

	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		ledger,
		sequenceRepo,
		payment.NewStubValidator(logger.Component("payment")),
		shipping.NewFlatRateQuoter(cfg.ShippingFlatCents),
		audit,
		redisdb.NewIdempotencyStore(rdb),
		logger.Component("orders"),
	)
	authService := service.NewAuthService(customerRepo, staffRepo, sessions, cfg.JWTSecret, 0)
	productService := service.NewProductService(productRepo, ledger, audit, logger.Component("products"))

	e := api.NewRouter(api.Deps{
		AuthService:  authService,
		OrderService: orderService,
		Catalog:      productService,
		Mongo:        db,
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		Logger:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("http server stopped")
}

// sweepSessions periodically evicts expired customer sessions. Eviction is an
// optimisation only: Validate already refuses expired tokens on its own.
func sweepSessions(ctx context.Context, sessions *service.SessionStore, log zerolog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("swept expired sessions")
			}
		}
	}
}
