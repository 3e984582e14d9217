package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"conduit/internal/identity/domain/entities"
	"conduit/pkg/logger"
)

const (
	msgUsernameTaken = "username is already taken"
	msgEmailTaken    = "email is already taken"

	msgErrUsernameLookup = "failed to look up username"
	msgErrEmailLookup    = "failed to look up email"

	emailRules = "required,max=254,email"
)

// userLookup - часть хранилища, нужная для проверки занятости.
type userLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
}

// CredentialValidator отсекает некорректные и конфликтующие данные регистрации
// до записи в хранилище. Проверка занятости - лишь быстрый путь:
// окончательную уникальность гарантируют ограничения БД.
type CredentialValidator struct {
	users    userLookup
	validate *validator.Validate
}

// NewCredentialValidator создает валидатор поверх хранилища пользователей.
func NewCredentialValidator(users userLookup) *CredentialValidator {
	return &CredentialValidator{
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NormalizeIdentifier приводит username или email к форме NFC.
// Пробелы не обрезаются: идентификатор сравнивается как есть.
func NormalizeIdentifier(s string) string {
	return norm.NFC.String(s)
}

// ValidatePassword проверяет длину пароля в символах: допустимо от 8 до 64 включительно.
func (v *CredentialValidator) ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < entities.MinPasswordLength || n > entities.MaxPasswordLength {
		return entities.ErrInvalidPasswordLength
	}
	return nil
}

// ValidateUsername проверяет, что username не пуст.
func (v *CredentialValidator) ValidateUsername(username string) error {
	if username == "" {
		return entities.ErrEmptyUsername
	}
	return nil
}

// ValidateEmailFormat выполняет чисто синтаксическую проверку адреса.
func (v *CredentialValidator) ValidateEmailFormat(email string) error {
	if err := v.validate.Var(email, emailRules); err != nil {
		return entities.ErrInvalidEmail
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return entities.ErrInvalidEmail
	}

	return nil
}

// ValidateUsernameAvailable возвращает entities.ErrUsernameTaken, если username занят.
func (v *CredentialValidator) ValidateUsernameAvailable(ctx context.Context, username string) error {
	existing, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrUsernameLookup, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		logger.Log(ctx).Debug(ctx, msgUsernameTaken)
		return entities.ErrUsernameTaken
	}
	return nil
}

// ValidateEmailAvailable возвращает entities.ErrEmailTaken, если email занят.
func (v *CredentialValidator) ValidateEmailAvailable(ctx context.Context, email string) error {
	existing, err := v.users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrEmailLookup, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		logger.Log(ctx).Debug(ctx, msgEmailTaken)
		return entities.ErrEmailTaken
	}
	return nil
}

// ValidateRegistration выполняет проверки в фиксированном порядке: сначала
// синтаксические (пароль, username, формат email), затем занятость
// (username, email). Некорректный email никогда не доходит до запроса к хранилищу.
func (v *CredentialValidator) ValidateRegistration(ctx context.Context, username, email, password string) error {
	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}
	if err := v.ValidateUsername(username); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingUsername, err)
	}
	if err := v.ValidateEmailFormat(email); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if err := v.ValidateUsernameAvailable(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingUsername, err)
	}
	if err := v.ValidateEmailAvailable(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	return nil
}
