package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/migrate"
)

const usage = `usage: migrate <command> [args]

commands:
  up                  apply all pending migrations
  up-to <version>     migrate up to a specific version
  down                roll back the most recent migration
  status              print migration status
  version             print the current schema version
  create <name>       scaffold a new SQL migration
  validate            check the migrations directory for problems
`

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command, rest := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, command, *dir, rest); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, command, dir string, args []string) error {
	switch command {
	case "create":
		if len(args) != 1 {
			return fmt.Errorf("create requires a migration name")
		}
		path, err := migrate.CreateSQLMigration(dir, args[0])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "validate":
		return migrate.ValidateDir(dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "smartcartshop-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	switch command {
	case "up-to":
		if len(args) != 1 {
			return fmt.Errorf("up-to requires a target version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, args[0])
	case "up", "down", "status", "version":
		return migrate.Run(ctx, sqlDB, dir, command, args...)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
