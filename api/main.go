package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/inventory-flow/docs"
	"github.com/rogerio-castellano/inventory-flow/internal/config"
	"github.com/rogerio-castellano/inventory-flow/internal/db"
	api "github.com/rogerio-castellano/inventory-flow/internal/http"
	"github.com/rogerio-castellano/inventory-flow/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-flow/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-flow/internal/logging"
	"github.com/rogerio-castellano/inventory-flow/internal/redissvc"
	"github.com/rogerio-castellano/inventory-flow/internal/repo"
	"github.com/rogerio-castellano/inventory-flow/internal/tracing"
	"go.uber.org/zap"
)

// @title Inventory Flow API
// @version 1.0
// @description REST API for managing inventory products.
// @host localhost:5000
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	products, summary, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open product store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	var productRepo repo.ProductRepository = repo.NewInstrumentedProductRepository(products)
	if cfg.RedisAddr != "" {
		cache, err := redissvc.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer cache.Close()
		productRepo = repo.NewCachedProductRepository(productRepo, cache, cfg.CacheTTL, logger)
		logger.Info("Product cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}
	if summary == nil {
		summary = repo.NewProductSummaryRepository(productRepo)
	}

	handlers.SetLogger(logger)
	handlers.SetProductRepo(productRepo)
	handlers.SetSummaryRepo(summary)

	opts := []api.RouterOption{
		api.WithLogger(logger),
		api.WithCORSOrigins(cfg.AllowedOrigins()...),
		api.WithTrustedProxy(cfg.TrustProxy),
	}
	if cfg.RateLimitRPS > 0 {
		limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Run(ctx, time.Minute, 5*time.Minute)
		opts = append(opts, api.WithRateLimiter(limiter))
	}

	docs.SwaggerInfo.Host = "localhost" + cfg.Addr()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	logger.Info("Server running", zap.String("addr", cfg.Addr()), zap.String("driver", cfg.StoreDriver))

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", zap.Error(err))
	}
	logger.Info("Server exited")
}

// openStore connects the configured backend. summary is nil when the backend
// has no native aggregate and should summarize from the product repository.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.ProductRepository, repo.SummaryRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.EnsureSchema(ctx, database); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := database.Close(); err != nil {
				logger.Error("Failed to close database", zap.Error(err))
			}
		}
		return repo.NewPostgresProductRepository(database), repo.NewPostgresSummaryRepository(database), closeFn, nil

	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		products := repo.NewMongoProductRepository(client.Database(cfg.MongoDatabase).Collection(repo.ProductsCollection))
		if err := products.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure product indexes", zap.Error(err))
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect from mongo", zap.Error(err))
			}
		}
		return products, nil, closeFn, nil

	default:
		logger.Warn("Using the in-memory product store; data is lost on restart")
		return repo.NewInMemoryProductRepository(), nil, func() {}, nil
	}
}
