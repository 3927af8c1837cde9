package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo, dispatcher)
	clientService := service.NewClientService(clientRepo, noteRepo, redis, dispatcher, logger)
	activityService := service.NewActivityService(dispatcher, logger, redis)
	worker.StartActivityWorker(activityService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), logger, !cfg.App.IsProduction())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routeCfg := httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Clients:        handlers.NewClientsHandler(clientService),
		Notes:          handlers.NewNotesHandler(clientService),
		AuthMiddleware: authMiddleware,
		Logger:         logger,
	}
	if !cfg.App.IsProduction() {
		routeCfg.Debug = handlers.NewDebugHandler(metrics, activityService)
	}
	httptransport.RegisterRoutes(app, routeCfg)

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
