// Package app содержит ядро сервиса идентификации: проверку учетных данных,
// доступ к хранилищу идентичностей и сценарии регистрации и входа.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"conduit/internal/identity/domain/entities"
	"conduit/internal/identity/domain/services"
	"conduit/internal/identity/ports/api"
	svc "conduit/internal/identity/ports/services"
	"conduit/pkg/logger"
)

const (
	methodRegister     = "Register"
	methodLogin        = "Login"
	methodCurrentUser  = "CurrentUser"
	methodAuthenticate = "Authenticate"

	msgStartRegistration   = "starting user registration"
	msgRegistrationInvalid = "registration rejected"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginRejected       = "login rejected"
	msgUserLoggedIn        = "user logged in successfully"
	msgCurrentUserMissing  = "token subject does not resolve to a user"

	msgErrRegister      = "failed to register user"
	msgErrAuthenticate  = "failed to authenticate user"
	msgErrFindingUser   = "failed to find user"
	msgErrGenerateToken = "failed to generate token"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingUsername = "validating username"
	errCtxValidatingPassword = "validating password"
	errCtxCheckingUser       = "checking existing user"
	errCtxRegistering        = "registering user"
	errCtxAuthenticating     = "authenticating user"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxGeneratingToken    = "generating token"
	errCtxCurrentUser        = "resolving current user"
)

// IdentityUseCaseImpl реализует api.IdentityUseCase.
type IdentityUseCaseImpl struct {
	validator *CredentialValidator
	store     api.IdentityStore
	tokenSvc  svc.TokenService
}

// NewIdentityUseCase связывает валидатор, хранилище и сервис токенов.
func NewIdentityUseCase(store api.IdentityStore, tokenSvc svc.TokenService) *IdentityUseCaseImpl {
	return &IdentityUseCaseImpl{
		validator: NewCredentialValidator(store),
		store:     store,
		tokenSvc:  tokenSvc,
	}
}

var _ api.IdentityUseCase = (*IdentityUseCaseImpl)(nil)

// Validator возвращает валидатор учетных данных.
func (u *IdentityUseCaseImpl) Validator() *CredentialValidator {
	return u.validator
}

// Register проверяет данные, создает пользователя и выпускает для него токен.
// Ошибки оборачивают entities.ErrValidation или entities.ErrConflict.
func (u *IdentityUseCaseImpl) Register(ctx context.Context, username, email, password string) (*services.AuthResult, error) {
	username = NormalizeIdentifier(username)
	email = NormalizeIdentifier(email)

	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	if err := u.validator.ValidateRegistration(ctx, username, email, password); err != nil {
		log.Debug(ctx, msgRegistrationInvalid, zap.Error(err))
		return nil, err
	}

	user, err := u.store.CreateUser(ctx, username, email, password)
	if err != nil {
		log.Debug(ctx, msgErrRegister, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRegistering, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", user.ID))
	return u.issue(ctx, user)
}

// Authenticate сообщает, подходит ли пароль к email. Неизвестный email и
// неверный пароль неразличимы: в обоих случаях false без ошибки.
func (u *IdentityUseCaseImpl) Authenticate(ctx context.Context, email, password string) (bool, error) {
	ok, err := u.store.VerifyPasswordByEmail(ctx, NormalizeIdentifier(email), password)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrAuthenticate, zap.String("method", methodAuthenticate), zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxAuthenticating, err)
	}
	return ok, nil
}

// Login проверяет пароль и выпускает токен. При несовпадении возвращает
// services.ErrInvalidCredentials.
func (u *IdentityUseCaseImpl) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	email = NormalizeIdentifier(email)

	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	ok, err := u.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug(ctx, msgLoginRejected)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	user, err := u.store.GetUserByEmail(ctx, email)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, err)
	}
	if user == nil {
		log.Debug(ctx, msgLoginRejected)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return u.issue(ctx, user)
}

// CurrentUser разрешает ID из токена в пользователя и выпускает новый токен.
func (u *IdentityUseCaseImpl) CurrentUser(ctx context.Context, userID string) (*services.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCurrentUser), zap.String("userID", userID))

	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCurrentUser, err)
	}
	if user == nil {
		log.Debug(ctx, msgCurrentUserMissing)
		return nil, fmt.Errorf("%s: %w", errCtxCurrentUser, entities.ErrUserNotFound)
	}

	return u.issue(ctx, user)
}

// GetUserByEmail возвращает nil, если пользователя нет.
func (u *IdentityUseCaseImpl) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return u.store.GetUserByEmail(ctx, NormalizeIdentifier(email))
}

// GetUserByUsername возвращает nil, если пользователя нет.
func (u *IdentityUseCaseImpl) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return u.store.GetUserByUsername(ctx, NormalizeIdentifier(username))
}

// GetUserByID возвращает nil, если пользователя нет.
func (u *IdentityUseCaseImpl) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return u.store.GetUserByID(ctx, id)
}

func (u *IdentityUseCaseImpl) issue(ctx context.Context, user *entities.User) (*services.AuthResult, error) {
	token, _, err := u.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrGenerateToken, zap.String("userID", user.ID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrTokenGenerationFailed, err)
	}
	return &services.AuthResult{User: user, Token: token}, nil
}
