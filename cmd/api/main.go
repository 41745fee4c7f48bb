package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/file-management/internal/api/http"
	"github.com/spec-kit/file-management/internal/api/http/handlers"
	"github.com/spec-kit/file-management/internal/auth"
	"github.com/spec-kit/file-management/internal/config"
	"github.com/spec-kit/file-management/internal/events"
	"github.com/spec-kit/file-management/internal/observability"
	"github.com/spec-kit/file-management/internal/persistence"
	"github.com/spec-kit/file-management/internal/repository"
	"github.com/spec-kit/file-management/internal/service"
	"github.com/spec-kit/file-management/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	jtiSource, err := auth.NewIdentifierSource(cfg.Auth.JTIStrategy, redis, cfg.Auth.JTIRedisKey)
	if err != nil {
		logger.Fatal("failed to init jti source", zap.Error(err))
	}

	metrics := observability.NewMetrics("file_management")
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		JTIGenerator: jtiSource,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to init token issuer", zap.Error(err))
	}
	fileService := service.NewFileService(fileRepo)
	authMiddleware := auth.NewMiddleware(authService.Verifier(), logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(authService),
		Auth:           handlers.NewAuthHandler(authService),
		Files:          handlers.NewFilesHandler(fileService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
