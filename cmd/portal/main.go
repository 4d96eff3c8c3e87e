package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/historisense/portal/internal/api/http"
	"github.com/historisense/portal/internal/api/http/handlers"
	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/backend"
	"github.com/historisense/portal/internal/config"
	"github.com/historisense/portal/internal/credstore"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/geocode"
	"github.com/historisense/portal/internal/observability"
	"github.com/historisense/portal/internal/persistence"
	"github.com/historisense/portal/internal/service"
	"github.com/historisense/portal/internal/session"
	"github.com/historisense/portal/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := credstore.NewRedisStore(redis.Client)
	validator := auth.NewValidator()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	guard := session.NewGuard(session.GuardDependencies{
		Store:      store,
		Validator:  validator,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}, cfg.Session.CheckInterval())
	defer guard.Shutdown()

	backendClient, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
	}, backend.Dependencies{
		Store:     store,
		Validator: validator,
		Sessions:  guard,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Fatal("failed to build backend client", zap.Error(err))
	}

	geocoder, err := geocode.NewClient(geocode.Config{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   cfg.Geocoder.Timeout(),
	}, logger)
	if err != nil {
		logger.Fatal("failed to build geocoder client", zap.Error(err))
	}

	accountService := service.NewAccountService(service.AccountDependencies{
		Backend:    backendClient,
		Store:      store,
		Validator:  validator,
		Guard:      guard,
		Dispatcher: dispatcher,
	}, cfg.Session.FallbackTTL())
	testimonyService := service.NewTestimonyService(backendClient, geocoder, dispatcher)
	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 50 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	cookieName := cfg.Session.CookieName
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, cfg.Backend.BaseURL),
		Auth:        handlers.NewAuthHandler(accountService, cookieName),
		Screens:     handlers.NewScreensHandler(guard, cookieName, testimonyService, logger),
		Testimonies: handlers.NewTestimoniesHandler(testimonyService),
		Session:     session.NewMiddleware(guard, cookieName),
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
