package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/config"
	"bcvrates-service/internal/infrastructure/cache"
	"bcvrates-service/internal/infrastructure/logx"
	"bcvrates-service/internal/infrastructure/pg"
	"bcvrates-service/internal/infrastructure/provider"
	redisstore "bcvrates-service/internal/infrastructure/redis"
	"bcvrates-service/internal/infrastructure/relay"
	"bcvrates-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
)

// History bundles the durable store with its health check.
type History struct {
	Repo application.RateHistoryRepo
	Ping func(ctx context.Context) error
}

// BuildHistory connects to Postgres and runs migrations.
func BuildHistory(ctx context.Context, cfg config.Config) (History, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return History{}, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return History{}, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return History{}, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return History{Repo: pg.NewRateRepo(db), Ping: db.Ping}, cleanup, nil
}

// BuildCache selects the tier-1 backend from CACHE_BACKEND.
func BuildCache(cfg config.Config) (application.RateCache, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := redisstore.New(client, cfg.CacheTTL, logx.L())
		return store, func() { _ = client.Close() }, nil
	case "memory":
		return &cache.Memory{TTL: cfg.CacheTTL}, func() {}, nil
	case "none":
		return cache.Noop{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}
}

// BuildProvider assembles the relay dispatcher, the source adapter and the
// circuit breaker around them.
func BuildProvider(cfg config.Config) application.RateProvider {
	switch cfg.Provider {
	case "bcv":
		d := &relay.Dispatcher{
			Relays:         relay.DefaultRelays(),
			Client:         &http.Client{},
			AttemptTimeout: cfg.RelayTimeout,
			Log:            logx.L(),
		}
		bcv := &provider.BCVProvider{BaseURL: cfg.RateAPIBase, Fetch: d}
		return provider.NewBreakerProvider(bcv, "bcv")
	default:
		return provider.NewFake(36.42)
	}
}

// BuildService wires the reconciliation engine with a queue-backed runner
// for its background writes. The runner must be started by the caller.
func BuildService(hist History, rc application.RateCache, rp application.RateProvider, cfg config.Config) (*application.RateService, *worker.Runner) {
	runner := worker.NewRunner(cfg.TaskQueueSize, logx.L())
	svc := application.NewRateService(rc, hist.Repo, rp, logx.L(),
		application.WithTaskRunner(runner))
	return svc, runner
}

// BuildRefreshWorker returns the periodic poller used by cmd/worker.
func BuildRefreshWorker(svc *application.RateService, cfg config.Config) application.Worker {
	return &worker.RefreshWorker{
		Service:   svc,
		PollEvery: cfg.RefreshInterval,
		Log:       logx.L(),
	}
}
