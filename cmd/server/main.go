package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deganai/yield-pool-watcher/internal/config"
	"github.com/deganai/yield-pool-watcher/internal/datasource"
	"github.com/deganai/yield-pool-watcher/internal/handler"
	"github.com/deganai/yield-pool-watcher/internal/middleware"
	"github.com/deganai/yield-pool-watcher/internal/monitor"
	"github.com/deganai/yield-pool-watcher/internal/pricecache"
	"github.com/deganai/yield-pool-watcher/internal/store"
	"github.com/deganai/yield-pool-watcher/internal/watch"
	"github.com/deganai/yield-pool-watcher/internal/x402"
)

// snapshotRetention bounds how far back a delta timeframe can reach.
const snapshotRetention = 24 * time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Alert audit log, optional. Without a database alerts are still
	// returned to callers, just not persisted.
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected and migrated")
	} else {
		logger.Info("DATABASE_URL not set, alert audit log disabled")
	}

	// Redis price cache, optional. Degrades to direct CoinGecko calls.
	var cache datasource.PriceCache
	if pc, err := pricecache.New(cfg.RedisURL, cfg.RedisPassword, 5*time.Minute); err != nil {
		logger.Warn("redis unavailable, price caching disabled", "error", err)
	} else {
		defer pc.Close()
		cache = pc
		logger.Info("redis connected for price caching")
	}

	// Data acquisition stack
	llama := datasource.NewDefiLlama()
	prices := datasource.NewPriceProvider(datasource.NewCoinGecko(), cache, logger)
	poolMonitor := monitor.New(cfg.RPCURLs, llama, prices, logger)

	// Watch engine
	watcher := watch.NewWatcher(snapshotRetention, logger)

	// Payment verification
	verifier := x402.NewVerifier(cfg.Facilitators, cfg.PaymentAddress, logger)

	// HTTP routes
	var audit handler.AlertWriter
	if db != nil {
		audit = db
	}
	watchHandler := handler.Watch(watcher, poolMonitor, audit, logger)
	discovery := handler.EntrypointDiscovery(cfg.BaseURL, cfg.PaymentAddress)

	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(middleware.Payment(verifier, cfg.PaymentAddress, cfg.BaseURL, cfg.FreeMode, logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", handler.Landing())
	r.Get("/health", handler.Health(cfg.FreeMode))
	r.Get("/healthz", handler.Health(cfg.FreeMode))
	r.Get("/readyz", handler.Ready(db))
	r.Get("/protocols", handler.Protocols())
	r.Post("/pools/watch", watchHandler)

	r.Get("/.well-known/agent.json", handler.AgentCard(cfg.BaseURL, cfg.PaymentAddress))
	r.Head("/.well-known/agent.json", handler.AgentCard(cfg.BaseURL, cfg.PaymentAddress))
	r.Get("/.well-known/x402", handler.X402Metadata(cfg.BaseURL, cfg.PaymentAddress))
	r.Head("/.well-known/x402", handler.X402Metadata(cfg.BaseURL, cfg.PaymentAddress))

	r.Get("/entrypoints/yield-pool-watcher/invoke", discovery)
	r.Head("/entrypoints/yield-pool-watcher/invoke", discovery)
	r.Post("/entrypoints/yield-pool-watcher/invoke", handler.EntrypointInvoke(watchHandler, discovery))

	if db != nil {
		r.Route("/api", func(r chi.Router) {
			r.Get("/alerts", handler.Alerts(db))
		})
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "free_mode", cfg.FreeMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
