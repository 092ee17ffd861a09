package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskline/configs"
	"taskline/internal/api"
	"taskline/internal/repository"
	"taskline/internal/repository/cache"
	"taskline/internal/repository/memory"
	"taskline/internal/repository/postgres"
	"taskline/internal/service"
	"taskline/pkg/database"
	"taskline/pkg/logger"
)

type storage interface {
	service.UserRepository
	service.PersonalTaskRepository
	service.WorkspaceRepository
	service.SharedTaskRepository
	Ping(ctx context.Context) error
}

func main() {
	cfg := configs.LoadConfig()

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "init loggers: %v\n", err)
		os.Exit(1)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))
	if cfg.UsesDefaultSecret() {
		logger.SecurityLogger.Warn("JWT_SECRET is not set, signing tokens with the default secret")
	}

	if err := run(cfg); err != nil {
		logger.ErrorLogger.Error("Application stopped with error", zap.Error(err))
		logger.SyncLoggers()
		os.Exit(1)
	}
}

func run(cfg configs.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	revoker, closeRevoker, err := openRevoker(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeRevoker()

	creds := service.NewCredentials(store, revoker, service.CredentialsConfig{
		Secret:     []byte(cfg.JWTSecret),
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	app := api.NewApp(api.Services{
		Credentials:   creds,
		PersonalTasks: service.NewPersonalTasks(store, creds),
		Workspaces:    service.NewWorkspaces(store, store),
		SharedTasks:   service.NewSharedTasks(store, store),
		Store:         store,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.AppPort)
		logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.SystemLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func openStorage(cfg configs.Config) (storage, func(), error) {
	if cfg.RepositoryType == configs.RepositoryMemory {
		logger.SystemLogger.Info("Using in-memory repository")
		return memory.New(), func() {}, nil
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SystemLogger.Info("Database connected", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	if err := repository.CreateTableIfNotExists(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return postgres.New(db), closer(db), nil
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.ErrorLogger.Error("Close database", zap.Error(err))
		}
	}
}

// openRevoker uses Redis when configured. Without it revocations live in
// process memory and are lost on restart.
func openRevoker(ctx context.Context, cfg configs.Config, store storage) (service.TokenRevoker, func(), error) {
	if cfg.RedisHost == "" {
		if m, ok := store.(*memory.Storage); ok {
			return m, func() {}, nil
		}
		logger.SystemLogger.Warn("REDIS_HOST not set, token revocations are kept in memory")
		return memory.New(), func() {}, nil
	}

	client, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SystemLogger.Info("Redis connected", zap.String("host", cfg.RedisHost))
	return cache.NewRevocations(client), func() { _ = client.Close() }, nil
}
