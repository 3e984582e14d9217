package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"conduit/internal/identity/domain/entities"
	"conduit/internal/identity/ports/api"
	"conduit/internal/identity/ports/repositories"
	svc "conduit/internal/identity/ports/services"
	"conduit/pkg/logger"
)

const (
	methodCreateUser            = "CreateUser"
	methodVerifyPasswordByEmail = "VerifyPasswordByEmail"

	msgUserCreated         = "user created"
	msgStoreConflict       = "user insert rejected by unique constraint"
	msgUnknownEmailVerify  = "password verification for unknown email"
	msgErrHashPassword     = "failed to hash password"
	msgErrCreateUser       = "failed to create user"
	msgErrVerifyPassword   = "error verifying password"
	msgErrDummyHash        = "failed to prepare dummy hash"
	msgErrLookupUser       = "failed to look up user"
	dummyPasswordForTiming = "conduit-dummy-password-for-timing"

	errCtxHashingPassword   = "hashing password"
	errCtxCreatingUser      = "creating user"
	errCtxFindingUser       = "finding user"
	errCtxVerifyingPassword = "verifying password"
)

// IdentityStoreImpl - единственный посредник между ядром и хранилищем пользователей.
// Хэш пароля не покидает этот тип: все возвращаемые пользователи очищены.
type IdentityStoreImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// NewIdentityStore создает хранилище идентичностей.
func NewIdentityStore(userRepo repositories.UserRepository, passwordSvc svc.PasswordService) *IdentityStoreImpl {
	return &IdentityStoreImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

var _ api.IdentityStore = (*IdentityStoreImpl)(nil)

// CreateUser сохраняет пользователя с новым солёным хэшем пароля.
func (s *IdentityStoreImpl) CreateUser(ctx context.Context, username, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateUser), zap.String("username", username))

	hash, err := s.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	created, err := s.userRepo.Create(ctx, &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, entities.ErrConflict) {
			log.Debug(ctx, msgStoreConflict)
			return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, entities.ErrConflict)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserCreated, zap.String("userID", created.ID))
	return created.Public(), nil
}

// GetUserByUsername возвращает nil, если пользователя нет.
func (s *IdentityStoreImpl) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return s.lookup(ctx, "username", func(ctx context.Context) (*entities.User, error) {
		return s.userRepo.FindByUsername(ctx, username)
	})
}

// GetUserByEmail возвращает nil, если пользователя нет.
func (s *IdentityStoreImpl) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.lookup(ctx, "email", func(ctx context.Context) (*entities.User, error) {
		return s.userRepo.FindByEmail(ctx, email)
	})
}

// GetUserByID возвращает nil, если пользователя нет.
func (s *IdentityStoreImpl) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return s.lookup(ctx, "id", func(ctx context.Context) (*entities.User, error) {
		return s.userRepo.FindByID(ctx, id)
	})
}

func (s *IdentityStoreImpl) lookup(
	ctx context.Context,
	key string,
	find func(context.Context) (*entities.User, error),
) (*entities.User, error) {
	user, err := find(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, nil
		}
		logger.Log(ctx).Error(ctx, msgErrLookupUser, zap.String("by", key), zap.Error(err))
		return nil, fmt.Errorf("%s by %s: %w", errCtxFindingUser, key, err)
	}
	return user.Public(), nil
}

// VerifyPasswordByEmail возвращает false и для неизвестного email, и для неверного пароля.
// Для неизвестного email выполняется сравнение с заранее вычисленным хэшем,
// чтобы обе ветки стоили одинаково. Ошибка означает только сбой инфраструктуры.
func (s *IdentityStoreImpl) VerifyPasswordByEmail(ctx context.Context, email, password string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerifyPasswordByEmail))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrLookupUser, zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if user == nil {
		hash, err := s.dummy(ctx)
		if err != nil {
			log.Error(ctx, msgErrDummyHash, zap.Error(err))
			return false, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
		}
		_, _ = s.passwordSvc.Verify(ctx, password, hash)
		log.Debug(ctx, msgUnknownEmailVerify)
		return false, nil
	}

	ok, err := s.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err), zap.String("userID", user.ID))
		return false, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	return ok, nil
}

// Warmup заранее вычисляет хэш-заглушку, чтобы первый запрос с неизвестным
// email не платил за его построение.
func (s *IdentityStoreImpl) Warmup(ctx context.Context) error {
	if _, err := s.dummy(ctx); err != nil {
		return fmt.Errorf("%s: %w", msgErrDummyHash, err)
	}
	return nil
}

func (s *IdentityStoreImpl) dummy(ctx context.Context) (string, error) {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = s.passwordSvc.Hash(ctx, dummyPasswordForTiming)
	})
	return s.dummyHash, s.dummyErr
}
