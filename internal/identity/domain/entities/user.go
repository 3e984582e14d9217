// Package entities описывает доменную сущность пользователя и ошибки идентификации.
package entities

import (
	"errors"
	"fmt"
	"time"
)

// Категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// вызывающий различает их через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("user already exists")
)

// Ошибки домена пользователя.
var (
	ErrInvalidPasswordLength = fmt.Errorf("%w: password length must be between %d and %d characters",
		ErrValidation, MinPasswordLength, MaxPasswordLength)
	ErrInvalidEmail  = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyUsername = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTaken = fmt.Errorf("%w: username is taken", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email is taken", ErrConflict)
	ErrUserNotFound  = errors.New("user not found")
)

// Границы длины пароля в символах, обе включительно.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// User - каноническая запись идентичности.
// PasswordHash заполняется только внутри хранилища и никогда не отдается наружу.
type User struct {
	ID           string
	Username     string
	Email        string
	Bio          *string
	Image        *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public возвращает копию пользователя без хэша пароля.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}
