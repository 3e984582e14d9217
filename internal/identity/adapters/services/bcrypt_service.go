package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"conduit/internal/identity/domain/services"
	svc "conduit/internal/identity/ports/services"
)

const (
	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgErrorComparingHash   = "error comparing password with hash"
)

// ServiceBcrypt реализует PasswordService поверх bcrypt.
// bcrypt учитывает только первые 72 байта, а пароль из 64 символов в UTF-8
// может быть длиннее, поэтому на вход bcrypt подается base64(sha256(password)).
type ServiceBcrypt struct {
	cost int
}

// NewBcrypt создает сервис bcrypt. Стоимость вне допустимого диапазона заменяется на DefaultCost.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceBcrypt{cost: cost}
}

// Hash хэширует пароль со свежей случайной солью.
func (s *ServiceBcrypt) Hash(_ context.Context, password string) (string, error) {
	if password == "" {
		return "", services.ErrInvalidPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword(prehash(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed)
	}

	return string(hashedBytes), nil
}

// Verify сравнивает пароль с хэшем за постоянное время.
// Несовпадение и пустой пароль дают false без ошибки.
func (s *ServiceBcrypt) Verify(_ context.Context, password, hash string) (bool, error) {
	if hash == "" {
		return false, services.ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", errMsgErrorComparingHash, err)
	}

	return true, nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
