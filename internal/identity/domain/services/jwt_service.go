package services

import (
	"errors"
	"time"
)

// Ошибки JWT.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// JWTConfig содержит настройки JWT сервиса.
type JWTConfig struct {
	SecretKey []byte
	TokenTTL  time.Duration
	Issuer    string
}

// JWTClaims - доменное представление claims токена. Subject совпадает с UserID.
type JWTClaims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
