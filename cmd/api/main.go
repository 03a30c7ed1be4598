package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vaibavdk-pieq/agent-management-template-main/internal/api/http"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/api/http/handlers"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/auth"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/config"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/events"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/observability"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/persistence"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/repository"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/service"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/worker"
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

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	userRepo = repository.NewCachedUserRepository(userRepo, redis.ClientHandle(), cfg.Redis.CacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	userService := service.NewUserService(userRepo, dispatcher, cfg.Pagination)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	var authHandler *handlers.AuthHandler
	var authMiddleware *auth.Middleware
	if cfg.Auth.Enabled {
		authService := service.NewAuthService(cfg.Auth)
		authHandler = handlers.NewAuthHandler(authService)
		authMiddleware = auth.NewMiddleware(authService.TokenManager())
	} else {
		logger.Warn("auth disabled; user routes are open")
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(userService),
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
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
