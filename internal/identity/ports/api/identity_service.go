package api

import (
	"context"

	"conduit/internal/identity/domain/entities"
	"conduit/internal/identity/domain/services"
)

// IdentityStore - единственный посредник между ядром и хранилищем.
// Get* возвращают nil без ошибки, если пользователя нет.
type IdentityStore interface {
	CreateUser(ctx context.Context, username, email, password string) (*entities.User, error)

	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)

	GetUserByID(ctx context.Context, id string) (*entities.User, error)

	// VerifyPasswordByEmail не различает "нет такого email" и "неверный пароль".
	VerifyPasswordByEmail(ctx context.Context, email, password string) (bool, error)
}

// IdentityUseCase - контракт ядра для HTTP слоя.
type IdentityUseCase interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)

	Authenticate(ctx context.Context, email, password string) (bool, error)

	Login(ctx context.Context, email, password string) (*services.AuthResult, error)

	CurrentUser(ctx context.Context, userID string) (*services.AuthResult, error)

	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)

	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

	GetUserByID(ctx context.Context, id string) (*entities.User, error)
}
