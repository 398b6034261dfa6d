package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	internalauth "github.com/kadavakolla169-collab/SmartCartShop/internal/auth"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/auth/session"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", "", "create an admin account with this email")
	adminPassword := flag.String("admin-password", "", "password for the admin account")
	adminName := flag.String("admin-name", "Administrator", "display name for the admin account")
	withProducts := flag.Bool("products", false, "seed a small demo catalog")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *adminEmail, *adminPassword, *adminName, *withProducts); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, adminEmail, adminPassword, adminName string, withProducts bool) error {
	if adminEmail == "" && !withProducts {
		return fmt.Errorf("nothing to do: pass -admin-email and/or -products")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "smartcartshop-seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	database, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if adminEmail != "" {
		if adminPassword == "" {
			return fmt.Errorf("-admin-password is required with -admin-email")
		}

		cache, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		sessions, err := session.NewManager(cache, cfg.JWT)
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

		admin, err := registerSvc.CreateAdmin(ctx, internalauth.RegisterRequest{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     adminName,
		})
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "admin_id", admin.ID), "admin account created")
	}

	if withProducts {
		catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(database.DB())})
		if err != nil {
			return err
		}
		created, err := seedProducts(ctx, catalogSvc)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "count", created), "demo catalog seeded")
	}

	return nil
}

func seedProducts(ctx context.Context, svc catalog.Service) (int, error) {
	demo := []catalog.CreateProductRequest{
		{
			Name:            "Bamboo Toothbrush",
			Description:     "Compostable handle, soft bristles.",
			Price:           decimal.NewFromFloat(3.99),
			Stock:           200,
			Category:        "personal-care",
			EcoFriendly:     true,
			CarbonFootprint: decimal.NewFromFloat(0.2),
			PlasticContent:  decimal.NewFromFloat(0.01),
		},
		{
			Name:            "Stainless Steel Bottle",
			Description:     "Insulated 750ml bottle.",
			Price:           decimal.NewFromFloat(19.50),
			Stock:           120,
			Category:        "kitchen",
			EcoFriendly:     true,
			CarbonFootprint: decimal.NewFromFloat(1.1),
			PlasticContent:  decimal.NewFromFloat(0.05),
		},
		{
			Name:            "Cotton Tote Bag",
			Description:     "Organic cotton, 15L capacity.",
			Price:           decimal.NewFromFloat(7.25),
			Stock:           300,
			Category:        "accessories",
			EcoFriendly:     true,
			CarbonFootprint: decimal.NewFromFloat(0.6),
			PlasticContent:  decimal.Zero,
		},
		{
			Name:            "Plastic Food Container Set",
			Description:     "Set of 5 sealable containers.",
			Price:           decimal.NewFromFloat(12.00),
			Stock:           150,
			Category:        "kitchen",
			CarbonFootprint: decimal.NewFromFloat(2.4),
			PlasticContent:  decimal.NewFromFloat(0.8),
		},
	}

	created := 0
	for _, req := range demo {
		if _, err := svc.Create(ctx, req); err != nil {
			return created, fmt.Errorf("seeding %q: %w", req.Name, err)
		}
		created++
	}
	return created, nil
}
