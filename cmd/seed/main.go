package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
)

// seed fetches the remote catalog once and persists it with simulated stock
// attached, so the API starts against a warm store.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	repo, cleanup, err := buildCatalogRepository(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer cleanup()

	remote, err := catalog.NewRemoteClient(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to create catalog client", err)
		os.Exit(1)
	}

	svc, err := catalog.NewService(repo, remote, catalog.NewStockPolicy(cfg.Catalog), cfg.Catalog.VariantCategories)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	products, err := svc.LoadOrInitialize(ctx)
	if err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "products", len(products)), fmt.Sprintf("catalog ready with %d products", len(products)))
}

func buildCatalogRepository(ctx context.Context, cfg *config.Config, logg *logger.Logger) (catalog.Repository, func(), error) {
	backend := cfg.Storage.BackendKind()

	if backend.UsesDatabase() {
		dbClient, err := db.New(ctx, backend, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		if err := dbClient.AutoMigrate(&models.Product{}); err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		return catalog.NewGormRepository(dbClient.DB()), func() { dbClient.Close() }, nil
	}

	switch backend {
	case enums.StorageBackendRedis:
		redisStore, err := kvstore.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewKVRepository(redisStore), func() { redisStore.Close() }, nil
	case enums.StorageBackendMemory:
		return catalog.NewKVRepository(kvstore.NewMemoryStore()), func() {}, nil
	default:
		fileStore, err := kvstore.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewKVRepository(fileStore), func() {}, nil
	}
}
