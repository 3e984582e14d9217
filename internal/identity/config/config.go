// Package config содержит конфигурацию сервиса идентификации.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "conduit/pkg/config"
	"conduit/pkg/logger"
)

// ServiceName используется в логах загрузки конфигурации.
const ServiceName = "identity"

const (
	LogConfigLoaded     = "identity service configuration loaded"
	ErrFailedLoadConfig = "failed to load identity configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load читает конфигурацию из envPath (если файл есть) и переменных окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	// Секрет и пароль БД в лог не попадают.
	log.Info(ctx, LogConfigLoaded,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.Int("postgres_min_conn", cfg.Postgres.MinConn),
		zap.Int("postgres_max_conn", cfg.Postgres.MaxConn),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.Duration("token_ttl", cfg.JWT.GetTokenTTL()),
		zap.Int("bcrypt_cost", cfg.JWT.BCryptCost),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}
