package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/repository/cartid"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	sessionsvc "storefront/internal/service/session"
	"storefront/internal/shopify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := shopify.New(shopify.Options{
		StoreDomain: cfg.Shopify.StoreDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		HTTPClient:  &http.Client{Timeout: cfg.Shopify.RequestTimeout},
		Logger:      log.With().Str("component", "shopify").Logger(),
		Metrics:     shopify.NewMetrics(reg),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init shopify client")
	}

	slot, checks, closeSlot, err := openSlot(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.CartID.Store).Msg("open cart id store")
	}
	defer closeSlot()

	sessions := sessionsvc.New(client, slot, sessionsvc.Options{
		IdleTTL: cfg.Session.IdleTTL,
		Logger:  log,
		Metrics: cartsvc.NewMetrics(reg),
	})
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	if pg, ok := slot.(*cartid.PostgresRepo); ok {
		go pruneLoop(ctx, pg, cfg.DB.Retention, log)
	}

	srv, err := httpserver.New(cfg.HTTP.Addr, log, httpserver.Deps{
		Gateway:     client,
		Products:    productsvc.New(client),
		Sessions:    sessions,
		Checks:      checks,
		Gatherer:    reg,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Cookie: httpserver.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("endpoint", client.Endpoint()).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("server stopped")
	}
}

// openSlot builds the configured cart id store along with its readiness
// checks and a close func.
func openSlot(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cartid.Repository, map[string]httpserver.Pinger, func(), error) {
	noop := func() {}
	switch cfg.CartID.Store {
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("connect db: %w", err)
		}
		repo := cartid.NewPostgres(pool)
		return repo, map[string]httpserver.Pinger{"postgres": repo}, pool.Close, nil
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		repo := cartid.NewRedis(client, cfg.Redis.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return repo, map[string]httpserver.Pinger{"redis": repo}, func() { _ = client.Close() }, nil
	case config.StoreFile:
		repo, err := cartid.NewFile(cfg.CartID.Dir)
		if err != nil {
			return nil, nil, noop, err
		}
		return repo, nil, noop, nil
	default:
		log.Warn().Msg("cart ids are kept in memory and lost on restart")
		return cartid.NewMemory(), nil, noop, nil
	}
}

func pruneLoop(ctx context.Context, repo *cartid.PostgresRepo, retention time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("prune cart ids")
		} else if n > 0 {
			log.Info().Int64("pruned", n).Msg("pruned stale cart ids")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
