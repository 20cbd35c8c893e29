package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/application/service"
	"github.com/damon-houk/vaddi-calculator/internal/config"
	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/db"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/handler"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/middleware"
	"github.com/damon-houk/vaddi-calculator/internal/tracing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log = logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("Starting vaddi calculator", map[string]interface{}{
		"addr":    cfg.Server.Addr,
		"backend": cfg.Store.Backend,
	})

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.OTEL.ServiceName, cfg.OTEL.Endpoint)
	if err != nil {
		log.Fatal("Failed to initialise tracing", map[string]interface{}{"error": err.Error()})
	}

	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal("Failed to open history store", map[string]interface{}{
			"backend": cfg.Store.Backend,
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing history store", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Initialize repositories
	history := db.NewHistoryRepository(store, db.HistoryOptions{
		Key:        cfg.Store.Key,
		MaxEntries: cfg.Store.MaxEntries,
	}, log)

	// Initialize services
	calcService := service.NewCalculatorService(history, interest.Limits{
		MaxPrincipal: cfg.Limits.MaxPrincipal,
		MaxRate:      cfg.Limits.MaxRate,
	}, log)

	// Initialize handlers
	calcHandler := handler.NewCalculationHandler(calcService, cfg.Language, log).WithLocation(cfg.Location())

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log), middleware.MetricsMiddleware)
	calcHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", map[string]interface{}{"signal": sig.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", map[string]interface{}{"error": err.Error()})
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig, log logger.Logger) (db.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		store := db.NewRedisBlobStore(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, err
		}
		log.Info("Using redis history store", map[string]interface{}{"addr": cfg.RedisAddr})
		return store, nil
	case config.BackendMemory:
		log.Warn("Using in-memory history store, history is lost on restart", nil)
		return db.NewMemoryBlobStore(), nil
	default:
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, err
		}
		store, err := db.OpenBadgerBlobStore(cfg.Path, cfg.SyncWrites)
		if err != nil {
			return nil, err
		}
		log.Info("Using badger history store", map[string]interface{}{"path": cfg.Path})
		return store, nil
	}
}
