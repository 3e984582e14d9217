package config

import (
	"fmt"
	"net/url"
	"time"
)

// PostgresConfig содержит настройки подключения и размер пула.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"IDENTITY_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"IDENTITY_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"IDENTITY_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"IDENTITY_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"IDENTITY_POSTGRES_DB" env-default:"conduit"`
	SSLMode  string `yaml:"ssl_mode" env:"IDENTITY_POSTGRES_SSLMODE" env-default:"disable"`
	MinConn  int    `yaml:"min_conn" env:"IDENTITY_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"IDENTITY_POSTGRES_MAX_CONN" env-default:"10"`

	// Postgres в контейнере может подняться позже сервиса.
	ConnectAttempts  int `yaml:"connect_attempts" env:"IDENTITY_POSTGRES_CONNECT_ATTEMPTS" env-default:"5"`
	ConnectBackoffMS int `yaml:"connect_backoff_ms" env:"IDENTITY_POSTGRES_CONNECT_BACKOFF_MS" env-default:"500"`
}

// GetConnectBackoff возвращает задержку перед повторным подключением.
func (p *PostgresConfig) GetConnectBackoff() time.Duration {
	return time.Duration(p.ConnectBackoffMS) * time.Millisecond
}

// GetDSN возвращает строку подключения для pgxpool.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для migrate.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}
