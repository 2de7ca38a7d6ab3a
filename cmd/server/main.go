package main // Entry point package

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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/config"
	"github.com/iliyamo/undangan-builder/internal/database"
	"github.com/iliyamo/undangan-builder/internal/logging"
	"github.com/iliyamo/undangan-builder/internal/queue"
	"github.com/iliyamo/undangan-builder/internal/repository"
	"github.com/iliyamo/undangan-builder/internal/router"
	"github.com/iliyamo/undangan-builder/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.IsProd(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := repository.NewUserRepo(db).EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	var rdb *redis.Client
	if client, err := config.NewRedisClient(ctx); err != nil {
		log.Warn("redis unavailable, cache and rate limit disabled", zap.Error(err))
	} else {
		rdb = client
		defer rdb.Close()
	}

	var bus queue.Publisher = queue.Nop{}
	if cfg.RabbitURL != "" {
		p := queue.NewAMQPPublisher(cfg.RabbitURL, log)
		defer p.Close()
		bus = p
	}

	e := router.New(router.Deps{
		Cfg:       cfg,
		DB:        db,
		Log:       log,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Store:     storage.NewLocal(cfg.StorageRoot),
		Bus:       bus,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
