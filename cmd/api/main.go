package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kadavakolla169-collab/SmartCartShop/api/controllers"
	"github.com/kadavakolla169-collab/SmartCartShop/api/routes"
	internalauth "github.com/kadavakolla169-collab/SmartCartShop/internal/auth"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/cart"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/ledger"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/orders"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/sustainability"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/users"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/auth/session"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/metrics"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/migrate"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/redis"
)

const (
	serviceName     = "smartcartshop-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).
			Error(context.Background(), "config load failed", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "server exited", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	database, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	sessions, err := session.NewManager(cache, cfg.JWT)
	if err != nil {
		return err
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, database); err != nil {
		return err
	}

	conn := database.DB()
	userRepo := users.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	sustainRepo := sustainability.NewRepository(conn)

	authSvc, err := internalauth.NewService(internalauth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	registerSvc, err := internalauth.NewRegisterService(internalauth.RegisterServiceParams{
		DB:             database,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{
		DB:          database,
		Repo:        cartRepo,
		CatalogRepo: catalogRepo,
	})
	if err != nil {
		return err
	}
	ledgerSvc, err := ledger.NewService(ledgerRepo)
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(orders.ServiceParams{
		DB:          database,
		Repo:        orderRepo,
		CartRepo:    cartRepo,
		CatalogRepo: catalogRepo,
		Ledger:      ledgerSvc,
	})
	if err != nil {
		return err
	}
	sustainSvc, err := sustainability.NewService(sustainability.ServiceParams{
		Repo:        sustainRepo,
		UserRepo:    userRepo,
		CartRepo:    cartRepo,
		Cache:       cache,
		Leaderboard: cfg.Leaderboard,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.New(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessions,
		Redis:    cache,
		Metrics:  httpMetrics,
		Registry: registry,

		Health:         controllers.NewHealthController(database, cache, logg),
		Auth:           controllers.NewAuthController(authSvc, registerSvc, logg),
		Products:       controllers.NewProductsController(catalogSvc, logg),
		Cart:           controllers.NewCartController(cartSvc, logg),
		Orders:         controllers.NewOrdersController(orderSvc, logg),
		Sustainability: controllers.NewSustainabilityController(sustainSvc, logg),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", srv.Addr), "http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
