package main

// Apply the schema for the configured primary store:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/storage/db"
	mongostore "jobboard-backend/internal/shared/storage/mongo"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageConnectTimeout*6)
	defer cancel()

	switch cfg.ResolveDriver() {
	case config.DriverPostgres:
		opts := db.OptionsFromEnv(db.Defaults(db.ProfileMigrate))
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database: %v", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	case config.DriverMongo:
		store, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StorageConnectTimeout)
		if err != nil {
			log.Printf("failed to configure mongo: %v", err)
			os.Exit(1)
		}
		defer store.Close(context.Background())

		if err := store.EnsureIndexes(ctx); err != nil {
			log.Printf("failed to create indexes: %v", err)
			os.Exit(1)
		}
	default:
		log.Printf("no DATABASE_URL or MONGODB_URI configured; nothing to migrate")
		return
	}
	log.Printf("schema up to date (%s)", cfg.ResolveDriver())
}
