package config

import "time"

const defaultTokenTTL = 24 * time.Hour

// JWTConfig содержит настройки токенов и стоимость bcrypt.
type JWTConfig struct {
	SecretKey  string `yaml:"secret_key" env:"IDENTITY_JWT_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	TokenTTL   string `yaml:"token_ttl" env:"IDENTITY_JWT_TOKEN_TTL" env-default:"24h"`
	Issuer     string `yaml:"issuer" env:"IDENTITY_JWT_ISSUER" env-default:"conduit"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"IDENTITY_JWT_BCRYPT_COST" env-default:"10"`
}

// GetTokenTTL возвращает время жизни токена; при ошибке разбора - 24h.
func (c *JWTConfig) GetTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.TokenTTL)
	if err != nil || duration <= 0 {
		return defaultTokenTTL
	}
	return duration
}
