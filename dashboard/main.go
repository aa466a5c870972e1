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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/inventory-flow/internal/client"
	"github.com/rogerio-castellano/inventory-flow/internal/config"
	"github.com/rogerio-castellano/inventory-flow/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-flow/internal/logging"
	"github.com/rogerio-castellano/inventory-flow/internal/ui"
	"go.uber.org/zap"
)

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

	dashboard, err := ui.NewDashboard(client.New(cfg.APIBaseURL, nil), logger)
	if err != nil {
		logger.Fatal("Failed to build dashboard", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Mount("/", dashboard)

	srv := &http.Server{
		Addr:              cfg.DashboardAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start dashboard", zap.Error(err))
		}
	}()
	logger.Info("Dashboard running", zap.String("addr", cfg.DashboardAddr()), zap.String("api", cfg.APIBaseURL))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Dashboard forced to shutdown", zap.Error(err))
	}
	logger.Info("Dashboard exited")
}
