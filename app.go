package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deal-scanner/config"
	"deal-scanner/scraper/ebay"
	"deal-scanner/services"
	"deal-scanner/storage"
	"deal-scanner/utils"
)

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	logger *utils.Logger

	adapter    *ebay.Adapter
	store      storage.TrackedStore
	cache      *storage.CompCache
	alerts     *services.AlertState
	estimator  *services.Estimator
	aggregator *services.Aggregator
	tracker    *services.Tracker
}

func newApp(cfg *config.Config, logger *utils.Logger) (*app, error) {
	backend, err := newBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.adapter = ebay.NewAdapter(backend, logger)
	a.store = newStore(cfg, logger)

	var comps services.CompSource = a.adapter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		cache := storage.NewCompCache(a.adapter, client, cfg.CompCacheTTL, logger)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := cache.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warn("Redis at %s unavailable, comps will not be cached: %v", cfg.RedisAddr, err)
			_ = cache.Close()
		} else {
			logger.Info("Caching comps in Redis at %s (ttl %v)", cfg.RedisAddr, cfg.CompCacheTTL)
			a.cache = cache
			comps = cache
		}
	}

	a.alerts = services.NewAlertState(cfg.KeepAlertsOnFailure)
	a.estimator = services.NewEstimator(comps, cfg.CompLimit, logger).WithRecorder(a.store)
	a.aggregator = services.NewAggregator(
		a.adapter,
		a.estimator,
		services.NewValuator(cfg.UndervalueRatio, cfg.MinDealDiscount),
		a.alerts,
		services.AggregatorOptions{
			EndingSoonWindow: cfg.EndingSoonWindow,
			EndingSoonLimit:  cfg.EndingSoonLimit,
			SearchLimit:      cfg.SearchLimit,
			MaxDeals:         cfg.MaxDeals,
		},
		logger,
	)
	a.tracker = services.NewTracker(a.adapter, a.store, cfg.MaxConcurrency, cfg.RateLimitMs, logger)

	return a, nil
}

func newBackend(cfg *config.Config, logger *utils.Logger) (ebay.Backend, error) {
	switch cfg.MarketplaceBackend {
	case "browser":
		logger.Info("Marketplace backend: headless browser")
		return ebay.NewBrowserClient(ebay.BrowserOptions{
			ChromeBin:  cfg.ChromeBin,
			Timeout:    4 * cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}), nil
	case "finding", "":
		if cfg.EbayAppID == "" {
			logger.Warn("EBAY_APP_ID is not set, searches will serve demo deals")
		}
		return ebay.NewFindingClient(ebay.FindingOptions{
			Endpoint:          cfg.FindingURL,
			AppID:             cfg.EbayAppID,
			GlobalID:          cfg.EbayGlobalID,
			Timeout:           cfg.HTTPTimeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
			Logger:            logger,
		})
	default:
		return nil, fmt.Errorf("unknown marketplace backend %q", cfg.MarketplaceBackend)
	}
}

func newStore(cfg *config.Config, logger *utils.Logger) storage.TrackedStore {
	if cfg.StoreBackend != "postgres" {
		return storage.NewMemoryStore()
	}

	pg, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Warn("Falling back to in-memory storage")
		return storage.NewMemoryStore()
	}
	logger.Info("Storing tracked items and baselines in PostgreSQL")
	return pg
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Closing store: %v", err)
	}
}
