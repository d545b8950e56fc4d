package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-tickets/internal/api/http"
	"github.com/spec-kit/support-tickets/internal/api/http/handlers"
	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/cache"
	"github.com/spec-kit/support-tickets/internal/config"
	"github.com/spec-kit/support-tickets/internal/notify"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/persistence"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/repository/postgres"
	"github.com/spec-kit/support-tickets/internal/repository/sqlite"
	"github.com/spec-kit/support-tickets/internal/service"
	"github.com/spec-kit/support-tickets/internal/worker"
)

// closer collects shutdown hooks, run in reverse order.
type closer []func()

func (c *closer) add(fn func()) { *c = append(*c, fn) }

func (c closer) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects the configured driver. migrate forces schema
// application regardless of STORE_RUN_MIGRATIONS.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger, migrate bool, closers *closer) (repository.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers.add(pg.Close)
		if migrate || cfg.RunMigrations {
			if err := persistence.RunPostgresMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return postgres.NewStore(pg.PoolHandle()), nil
	case config.StoreDriverSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		closers.add(func() { _ = db.Close() })
		if migrate || cfg.RunMigrations {
			if err := persistence.RunSQLiteMigrations(ctx, db, logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return sqlite.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openCache(cfg config.CacheConfig, redis *persistence.Redis, closers *closer) (cache.Cache, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return cache.NewRedis(redis.Client, cfg.TTL()), nil
	case config.DriverPebble:
		p, err := cache.OpenPebble(cfg.PebbleDir, cfg.TTL())
		if err != nil {
			return nil, fmt.Errorf("open pebble cache: %w", err)
		}
		closers.add(func() { _ = p.Close() })
		return p, nil
	default:
		return cache.Nop{}, nil
	}
}

func openNotifier(cfg config.NotificationConfig, redis *persistence.Redis, logger *zap.Logger) notify.Notifier {
	switch cfg.Driver {
	case config.DriverRedis:
		return notify.NewRedisQueue(redis.Client, cfg.QueueKey)
	case config.DriverLog:
		return notify.NewLog(logger)
	default:
		return notify.Nop{}
	}
}

func runMigrate(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var closers closer
	defer closers.run()
	if _, err := openStore(ctx, cfg.Store, logger, true, &closers); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return err
	}
	logger.Info("schema up to date", zap.String("driver", cfg.Store.Driver))
	return nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var closers closer
	defer closers.run()

	store, err := openStore(ctx, cfg.Store, logger, false, &closers)
	if err != nil {
		logger.Error("store unavailable", zap.Error(err))
		return err
	}
	health := map[string]handlers.Pinger{"store": store}

	var redis *persistence.Redis
	if cfg.UsesRedis() {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		closers.add(redis.Close)
		health["redis"] = redis
	}

	recordCache, err := openCache(cfg.Cache, redis, &closers)
	if err != nil {
		logger.Error("cache unavailable", zap.Error(err))
		return err
	}
	notifier := openNotifier(cfg.Notification, redis, logger)

	metrics := observability.NewMetrics()
	pool := worker.NewPool(cfg.SideChannel.Workers, cfg.SideChannel.QueueSize, cfg.SideChannel.Timeout(), logger, metrics)
	// Registered last so it drains before redis and pebble close.
	closers.add(pool.Close)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:    store,
		Cache:    recordCache,
		Notifier: notifier,
		Runner:   pool,
		Logger:   logger,
		Metrics:  metrics,
	})
	userService := service.NewUserService(service.UserDependencies{
		Store:  store,
		Tokens: tokens,
		Cache:  recordCache,
		Runner: pool,
		Logger: logger,
	})

	app := httptransport.NewApp(cfg.App, httptransport.ServerDependencies{
		Tickets: ticketService,
		Users:   userService,
		Tokens:  tokens,
		Health:  health,
		Logger:  logger,
		Metrics: metrics,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(context.Cause(ctx)))
	case err := <-listenErr:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
		return nil
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("shutdown", zap.Error(err))
	}
	return nil
}
