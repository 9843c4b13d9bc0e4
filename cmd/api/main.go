package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/finguard/user-service/internal/api/http"
	"github.com/finguard/user-service/internal/api/http/handlers"
	"github.com/finguard/user-service/internal/auth"
	"github.com/finguard/user-service/internal/config"
	"github.com/finguard/user-service/internal/events"
	"github.com/finguard/user-service/internal/observability"
	"github.com/finguard/user-service/internal/persistence"
	"github.com/finguard/user-service/internal/repository"
	"github.com/finguard/user-service/internal/service"
	"github.com/finguard/user-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	key, err := signingKey(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to prepare signing key", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(key, cfg.Auth.AccessTokenTTL)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	authenticator, err := auth.NewCredentialAuthenticator(tokens, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to init authenticator", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:      repository.NewUserRepository(pg.PoolHandle()),
		Authenticator: authenticator,
		Dispatcher:    dispatcher,
		Logger:        logger,
		BcryptCost:    cfg.Auth.BcryptCost,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, logger,
			handlers.Dependency{Name: "postgres", Pinger: pg},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Users:          handlers.NewUsersHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, logger, metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening",
		zap.String("addr", cfg.App.Addr()),
		zap.Duration("token_ttl", tokens.TTL()))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	observability.LogSnapshot(logger, metrics)
}

// signingKey uses the configured secret, or a fresh random key when none is
// set. A random key invalidates every token on restart.
func signingKey(cfg config.AuthConfig, logger *zap.Logger) (auth.SigningKey, error) {
	if cfg.JWTSecret != "" {
		return auth.NewSigningKey([]byte(cfg.JWTSecret))
	}
	logger.Warn("AUTH_JWT_SECRET not provided; generating an ephemeral signing key")
	return auth.GenerateSigningKey()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
