package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopfront-labs/shopfront-backend/api/controllers"
	"github.com/shopfront-labs/shopfront-backend/api/routes"
	authsvc "github.com/shopfront-labs/shopfront-backend/internal/auth"
	cartsvc "github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	checkoutsvc "github.com/shopfront-labs/shopfront-backend/internal/checkout"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
	"github.com/shopfront-labs/shopfront-backend/pkg/metrics"
)

// storage bundles the repositories and session store for the selected backend.
type storage struct {
	catalogRepo catalog.Repository
	cartRepo    cartsvc.Repository
	sessions    kvstore.Store
	pingers     []controllers.Pinger
	closers     []func() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := buildStorage(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		for _, closer := range store.closers {
			if err := closer(); err != nil {
				logg.Error(context.Background(), "error closing storage", err)
			}
		}
	}()

	remote, err := catalog.NewRemoteClient(cfg.Catalog)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(store.catalogRepo, remote, catalog.NewStockPolicy(cfg.Catalog), cfg.Catalog.VariantCategories)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	// Warm the catalog so stock is assigned before the first request. A cold
	// remote API is not fatal; initialization retries lazily per request.
	if _, err := catalogService.LoadOrInitialize(context.Background()); err != nil {
		logg.Warn(context.Background(), "catalog warm-up failed: "+err.Error())
	}

	cartService, err := cartsvc.NewService(store.cartRepo, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(store.sessions, cfg.Demo, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, httpMetrics, authService, catalogService, cartService, checkoutService, store.pingers...),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildStorage wires the repositories behind the configured backend. Database
// backends keep the catalog and cart in tables; the session flags always live
// in a key-value store so the login gate works the same everywhere.
func buildStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storage, error) {
	backend := cfg.Storage.BackendKind()

	if backend.UsesDatabase() {
		dbClient, err := db.New(ctx, backend, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := dbClient.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
			dbClient.Close()
			return nil, err
		}

		sessions, err := kvstore.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			dbClient.Close()
			return nil, err
		}

		return &storage{
			catalogRepo: catalog.NewGormRepository(dbClient.DB()),
			cartRepo:    cartsvc.NewGormRepository(dbClient.DB()),
			sessions:    sessions,
			pingers:     []controllers.Pinger{dbClient},
			closers:     []func() error{dbClient.Close},
		}, nil
	}

	var (
		kv      kvstore.Store
		pingers []controllers.Pinger
		closers []func() error
	)
	switch backend {
	case enums.StorageBackendRedis:
		redisStore, err := kvstore.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		kv = redisStore
		pingers = append(pingers, redisStore)
		closers = append(closers, redisStore.Close)
	case enums.StorageBackendMemory:
		kv = kvstore.NewMemoryStore()
	default:
		fileStore, err := kvstore.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		kv = fileStore
	}

	return &storage{
		catalogRepo: catalog.NewKVRepository(kv),
		cartRepo:    cartsvc.NewKVRepository(kv),
		sessions:    kv,
		pingers:     pingers,
		closers:     closers,
	}, nil
}
