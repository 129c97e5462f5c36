package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/checkout"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/config"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/handlers"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/router"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/seatmap"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/service"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/websocket"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("portal", reg)

	api := apiclient.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, log)

	// Seat inventory
	var inventory seatmap.Inventory = seatmap.SyntheticInventory{}
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatal("Failed to ping database", "error", err)
		}
		inventory = seatmap.NewPostgresInventory(pool)
		log.Info("Using database seat inventory")
	}

	// Checkout
	var processor checkout.Processor
	switch cfg.CheckoutMode {
	case config.CheckoutTemporal:
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalHost,
			Namespace: cfg.TemporalNamespace,
			Logger:    log,
		})
		if err != nil {
			log.Fatal("Failed to create Temporal client", "error", err)
		}
		defer tc.Close()
		processor = checkout.NewTemporalProcessor(tc, cfg.TaskQueue, cfg.PaymentDelay, log)
		log.Info("Connected to Temporal", "host", cfg.TemporalHost, "taskQueue", cfg.TaskQueue)
	default:
		processor = checkout.NewInlineProcessor(api, cfg.PaymentDelay, log)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal("Failed to parse templates", "error", err)
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	store := session.NewStore(cfg.SessionTTL, cfg.FilterDebounce, m, log)
	go store.Run(ctx, sweepInterval)

	portal := service.NewPortalService(service.Dependencies{
		API:       api,
		Store:     store,
		Tokens:    session.NewTokenService(cfg.SessionSecret, cfg.SessionTTL),
		Inventory: inventory,
		Checkout:  processor,
		Notifier:  hub,
		Renderer:  renderer,
		Metrics:   m,
		Logger:    log,
	})

	proxy, err := router.NewUpstreamProxy(cfg.UpstreamURL, log)
	if err != nil {
		log.Fatal("Failed to create upstream proxy", "error", err)
	}

	h := handlers.NewHandler(portal, renderer, cfg.SessionTTL, cfg.CookieSecure, log)
	r := router.SetupRouter(h, proxy, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Portal starting", "port", cfg.Port, "upstream", cfg.UpstreamURL, "checkout", cfg.CheckoutMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down portal...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	cancel()

	log.Info("Portal stopped")
}
