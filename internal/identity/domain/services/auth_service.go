package services

import (
	"errors"

	"conduit/internal/identity/domain/entities"
)

// ErrInvalidCredentials возвращается при входе и не уточняет, что именно неверно.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrTokenGenerationFailed - не удалось выпустить токен для пользователя.
var ErrTokenGenerationFailed = errors.New("failed to generate authentication token")

// AuthResult - пользователь вместе с выпущенным для него bearer-токеном.
type AuthResult struct {
	User  *entities.User
	Token string
}
