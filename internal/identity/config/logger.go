package config

import (
	"strings"

	"conduit/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"IDENTITY_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"IDENTITY_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(l.Mode, string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}
