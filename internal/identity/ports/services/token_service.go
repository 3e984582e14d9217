package services

import (
	"context"
	"time"
)

// TokenService выпускает и проверяет bearer-токены.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error)

	// ValidateAccessToken возвращает ID пользователя из subject токена.
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
