package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"conduit/internal/identity/domain/entities"
	"conduit/internal/identity/ports/repositories"
	"conduit/pkg/logger"
)

// uniqueViolation - SQLSTATE нарушения уникального ограничения.
const uniqueViolation = "23505"

const userColumns = `id::text, username, email, bio, image, password_hash, created_at, updated_at`

const (
	queryCreateUser = `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	queryFindByID = `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	queryFindByEmail = `
        SELECT ` + userColumns + `
        FROM users
        WHERE lower(email) = lower($1)
    `

	queryFindByUsername = `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = $1
    `
)

// PgxPoolInterface - часть pgxpool.Pool, нужная репозиторию. Ей удовлетворяет pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// UserRepository реализует repositories.UserRepository поверх Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Create вставляет пользователя одним выражением, поэтому частичной записи быть не может.
// Нарушение уникальности username или email превращается в entities.ErrConflict
// без указания поля.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	created, err := scanUser(r.pool.QueryRow(ctx, queryCreateUser,
		user.Username,
		user.Email,
		user.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "unique constraint violated on user insert")
			return nil, fmt.Errorf("error creating user: %w", entities.ErrConflict)
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// FindByID находит пользователя по ID. Строка, не являющаяся UUID, не найдена по определению.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	if _, err := uuid.Parse(id); err != nil {
		log.Debug(ctx, "malformed user id", zap.String("id", id))
		return nil, entities.ErrUserNotFound
	}

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email без учета регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}

// FindByUsername находит пользователя по точному совпадению username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsername"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindByUsername, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("username", username))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by username", zap.Error(err))
		return nil, fmt.Errorf("error querying user by username: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Bio,
		&user.Image,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
