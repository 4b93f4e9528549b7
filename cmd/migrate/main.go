package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"necx-chat/config"
	"necx-chat/internal/services"
	"necx-chat/pkg/database"
)

const usage = `
Necx Chat - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Apply all pending migrations (Mongo: ensure indexes)
  down        Roll back all SQL migrations
  status      Show migration status
  seed        Create the default users if the store is empty
  reset       Roll back and re-apply all migrations (DANGEROUS)

Flags:
  -driver string   Store driver, overrides STORE_DRIVER (postgres | mongo)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go -driver mongo seed
`

func main() {
	driver := flag.String("driver", "", "Store driver, overrides STORE_DRIVER")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if *driver != "" {
		cfg.StoreDriver = *driver
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateReset:
		runMigration(ctx, cfg, command)
	case "seed":
		runSeed(ctx, cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigration(ctx context.Context, cfg *config.Config, command string) {
	if cfg.StoreDriver == config.StoreMongo {
		if command != database.MigrateUp {
			log.Fatalf("❌ %q is only supported for the postgres driver", command)
		}
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer client.Disconnect(context.Background())

		log.Println("🚀 Ensuring MongoDB indexes...")
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("✅ Indexes ensured!")
		return
	}

	pool, err := database.ConnectPostgres(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer pool.Close()

	if command == database.MigrateReset {
		log.Println("⚠️  WARNING: This will roll back every migration and drop all data!")
	}
	log.Printf("🚀 Running migration command %q...", command)
	if err := database.Migrate(ctx, pool, command); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Done!")
}

func runSeed(ctx context.Context, cfg *config.Config) {
	log.Println("🌱 Seeding default users...")

	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer store.Close()

	existing, err := services.NewUserService(store.Users).EnsureDefaultUsers(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	if existing > 0 {
		log.Printf("ℹ️  %d users already present, nothing to do", existing)
		return
	}
	log.Println("✅ Default users created!")
}
