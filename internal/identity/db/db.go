// Package db подготавливает базу данных сервиса идентификации: применяет
// миграции и открывает пул соединений.
package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"conduit/internal/identity/config"
	"conduit/pkg/db/postgres"
	"conduit/pkg/logger"
	"conduit/pkg/retry"
)

// DefaultMigrationsDir - каталог миграций относительно рабочей директории.
const DefaultMigrationsDir = "migrations/identity"

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing identity database"
	LogDBInitialized     = "identity database initialized successfully"
	LogMigrationStarting = "starting database migrations for identity service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply identity database migrations"
	ErrDBConnection = "failed to connect to identity database"
	ErrGetPath      = "failed to get path"
)

// Точки подмены для тестов.
var (
	migrate = postgres.MigrateDSN
	connect = postgres.New
	absPath = filepath.Abs
)

// DB представляет соединение с базой данных сервиса идентификации.
type DB struct {
	database *postgres.Database
}

// New открывает пул соединений, повторяя попытки подключения, и применяет миграции из migrationsDir.
// Пустой migrationsDir означает DefaultMigrationsDir.
func New(ctx context.Context, cfg *config.PostgresConfig, migrationsDir string) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	source, err := migrationsSource(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	var database *postgres.Database
	err = retry.Do(ctx, "postgres connect", connectRetry(cfg), func(ctx context.Context) error {
		var err error
		database, err = connect(ctx, cfg.GetDSN(), cfg.MinConn, cfg.MaxConn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", source))
	if err := migrate(ctx, cfg.GetConnectionURL(), source); err != nil {
		database.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

func connectRetry(cfg *config.PostgresConfig) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.ConnectAttempts
	if backoff := cfg.GetConnectBackoff(); backoff > 0 {
		rc.InitialBackoff = backoff
		rc.MaxBackoff = 10 * backoff
	}
	return rc
}

func migrationsSource(dir string) (string, error) {
	if dir == "" {
		dir = DefaultMigrationsDir
	}
	if filepath.IsAbs(dir) {
		return "file://" + dir, nil
	}
	abs, err := absPath(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrGetPath, err)
	}
	return "file://" + abs, nil
}

// Close закрывает пул соединений.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
