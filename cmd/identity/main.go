// Package main реализует точку входа сервиса идентификации.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	identityhttp "conduit/internal/identity/adapters/http"
	"conduit/internal/identity/adapters/postgres"
	"conduit/internal/identity/adapters/services"
	"conduit/internal/identity/app"
	"conduit/internal/identity/config"
	"conduit/internal/identity/db"
	"conduit/pkg/logger"
	"conduit/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode    = "IDENTITY_LOGGER_MODE"
	EnvLoggerLevel   = "IDENTITY_LOGGER_LEVEL"
	EnvConfigPath    = "IDENTITY_CONFIG_PATH"
	EnvMigrationsDir = "IDENTITY_MIGRATIONS_DIR"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrWarmup               = "failed to prepare password verification"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "identity service started"
	LogServiceShutdownDone = "identity service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, os.Getenv(EnvConfigPath))
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres, os.Getenv(EnvMigrationsDir))
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(
			cfg.JWT.SecretKey,
			cfg.JWT.GetTokenTTL(),
			cfg.JWT.Issuer,
			cfg.JWT.BCryptCost,
		)
		tokenService := serviceFactory.TokenService()

		log.Info(ctx, LogInitUseCases)
		store := app.NewIdentityStore(repoFactory.UserRepository(), serviceFactory.PasswordService())
		if err := store.Warmup(ctx); err != nil {
			log.Error(ctx, ErrWarmup, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}
		identity := app.NewIdentityUseCase(store, tokenService)

		log.Info(ctx, LogInitHTTPServer)
		server := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.GetReadTimeout(),
			WriteTimeout: cfg.HTTP.GetWriteTimeout(),
		})
		identityhttp.SetupRouter(server, identity, tokenService, database)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		// Пул закрывается только после того, как HTTP сервер дождался активных запросов.
		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				err := server.ShutdownWithContext(ctx)

				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return err
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
