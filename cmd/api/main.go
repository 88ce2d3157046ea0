package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	grpctransport "github.com/spec-kit/user-directory/internal/api/grpc"
	httptransport "github.com/spec-kit/user-directory/internal/api/http"
	"github.com/spec-kit/user-directory/internal/api/http/handlers"
	"github.com/spec-kit/user-directory/internal/config"
	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/observability"
	"github.com/spec-kit/user-directory/internal/persistence"
	"github.com/spec-kit/user-directory/internal/service"
	"github.com/spec-kit/user-directory/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open user store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	sink := events.NewRedisStreamSink(redis.Client, cfg.Redis.EventsStream, cfg.Redis.EventsMaxLen)
	worker.StartNotificationWorker(dispatcher, sink, logger)

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   store.users,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	contactService := service.NewContactService()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.dependencies, metrics).
		WithOptional(map[string]handlers.Pinger{"redis": redis})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   health,
		Users:    handlers.NewUsersHandler(userService),
		Contacts: handlers.NewContactsHandler(contactService),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	var grpcServer *grpctransport.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpctransport.NewServer(
			grpctransport.NewUserHandler(userService, logger),
			cfg.GRPC.Addr(cfg.App.Host),
			logger,
		)
		go func() {
			logger.Info("grpc server listening", zap.String("addr", grpcServer.Address()))
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("grpc serve", zap.Error(err))
			}
		}()
	}

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if grpcServer != nil {
		if err := grpcServer.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("grpc shutdown", zap.Error(err))
		}
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
