package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/media-library-service/internal/api/http"
	"github.com/spec-kit/media-library-service/internal/api/http/handlers"
	"github.com/spec-kit/media-library-service/internal/auth"
	"github.com/spec-kit/media-library-service/internal/config"
	"github.com/spec-kit/media-library-service/internal/contentstore"
	"github.com/spec-kit/media-library-service/internal/events"
	"github.com/spec-kit/media-library-service/internal/observability"
	"github.com/spec-kit/media-library-service/internal/persistence"
	"github.com/spec-kit/media-library-service/internal/repository"
	"github.com/spec-kit/media-library-service/internal/service"
	"github.com/spec-kit/media-library-service/internal/worker"
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

	metrics := observability.NewMetrics()

	// User records and mutations always go through the published
	// perspective; the studio client sees drafts for the admin view.
	readStore := contentstore.NewClient(cfg.Content, cfg.Content.ReadToken, contentstore.PerspectivePublished, logger)
	writeStore := contentstore.NewClient(cfg.Content, cfg.Content.WriteToken, contentstore.PerspectivePublished, logger)
	studioStore := contentstore.NewClient(cfg.Content, cfg.Content.ReadToken, contentstore.PerspectiveDrafts, logger)

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(writeStore)
	catalogRepo := repository.NewCatalogRepository(readStore, studioStore)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, userRepo, dispatcher, logger)
	signupService := service.NewSignupService(*cfg, userRepo, dispatcher, logger)
	catalogService := service.NewCatalogService(catalogRepo, redis, cfg.Redis.CacheTTL(), logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readStore, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Signup:         handlers.NewSignupHandler(signupService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
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
