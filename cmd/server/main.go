package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"brandreach/internal/audit"
	"brandreach/internal/campaign"
	campaignhandler "brandreach/internal/campaign/handler"
	"brandreach/internal/gateway"
	"brandreach/internal/gateway/admin"
	"brandreach/internal/gateway/cache"
	"brandreach/internal/gateway/identity"
	"brandreach/internal/gateway/refresh"
	"brandreach/internal/gateway/session"
	"brandreach/internal/gateway/tokens"
	"brandreach/internal/gateway/upstream"
	"brandreach/internal/platform/config"
	"brandreach/internal/platform/httpserver"
	"brandreach/internal/platform/logger"
	"brandreach/internal/platform/metrics"
	platformredis "brandreach/internal/platform/redis"
	"brandreach/internal/proxy"
	httptransport "brandreach/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)
	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional Redis: enables the shared L2 identity cache and becomes the
	// readiness check behind /healthz.
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	var sharedCache *cache.RedisIdentityCache
	var health httptransport.Pinger
	if redisClient != nil {
		sharedCache = cache.NewRedisIdentityCache(redisClient.Client, 5*time.Second)
		health = redisClient
		defer redisClient.Close()
	}

	// Campaign persistence: postgres when configured, memory otherwise.
	var campaignStore campaign.Store = campaign.NewInMemoryStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("postgres init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := campaign.NewPostgresStore(pool)
		if err := pg.Schema(ctx); err != nil {
			log.Error("postgres schema failed", "error", err)
			os.Exit(1)
		}
		campaignStore = pg
	}

	// Audit trail: memory store always, kafka sink when brokers configured.
	publisher := audit.NewPublisher(256)
	stores := []audit.Store{audit.NewInMemoryStore()}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		stores = append(stores, kafkaStore)
	}
	worker := audit.NewWorker(publisher.Inbox(), log, stores...)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	// The gateway core.
	tokenStore := tokens.New(cfg.Production(), cfg.CookieDomain)
	backend := upstream.New(cfg.UpstreamBaseURL, nil, m)
	resolver := identity.New(
		tokenStore,
		cache.NewUserCache(cfg.Cache.UserTTL, cfg.Cache.MaxEntries),
		sharedCache,
		backend,
		log,
		m,
	)
	refresher := refresh.New(
		tokenStore,
		cache.NewRefreshCache(cfg.Cache.RefreshTTL, cfg.Cache.MaxEntries),
		backend,
		log,
		m,
	)
	gate := session.New(tokenStore, resolver, refresher, log)
	gw := gateway.New(tokenStore, gate, resolver, admin.New(cfg.AdminTokenHash), publisher, log, m)

	backendProxy, err := proxy.New(cfg.UpstreamBaseURL, log)
	if err != nil {
		log.Error("proxy init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(gw, campaignhandler.New(campaignStore, log), backendProxy, health, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting brandreach gateway",
		"addr", cfg.Addr,
		"upstream", cfg.UpstreamBaseURL,
		"environment", cfg.Environment,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
