package config

import (
	"fmt"
	"time"
)

// HTTPConfig - настройки HTTP сервера.
type HTTPConfig struct {
	Host         string `yaml:"host" env:"IDENTITY_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int    `yaml:"port" env:"IDENTITY_HTTP_PORT" env-default:"8080"`
	ReadTimeout  int    `yaml:"read_timeout" env:"IDENTITY_HTTP_READ_TIMEOUT" env-default:"10"`
	WriteTimeout int    `yaml:"write_timeout" env:"IDENTITY_HTTP_WRITE_TIMEOUT" env-default:"10"`
}

// GetAddress возвращает адрес прослушивания.
func (h *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// GetReadTimeout возвращает таймаут чтения запроса.
func (h *HTTPConfig) GetReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeout) * time.Second
}

// GetWriteTimeout возвращает таймаут записи ответа.
func (h *HTTPConfig) GetWriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeout) * time.Second
}
