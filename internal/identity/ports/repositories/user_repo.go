package repositories

import (
	"context"

	"conduit/internal/identity/domain/entities"
)

// UserRepository - доступ к таблице пользователей.
// Методы поиска возвращают entities.ErrUserNotFound, если записи нет;
// Create возвращает ошибку, оборачивающую entities.ErrConflict, при нарушении уникальности.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}
