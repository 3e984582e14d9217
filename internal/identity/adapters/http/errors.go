package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"conduit/internal/identity/domain/entities"
	"conduit/internal/identity/domain/services"
)

// Тексты ответов. Детали ошибок наружу не отдаются: в них могут быть
// введенные пользователем данные.
const (
	ErrorInvalidRequest   = "invalid request"
	ErrorConflict         = "username or email is already taken"
	ErrorUnauthorized     = "invalid email or password"
	ErrorInvalidToken     = "missing or invalid token"
	ErrorUserNotFound     = "user not found"
	ErrorInternal         = "internal server error"
	ErrorRouteNotFound    = "route not found"
	ErrorServiceUnhealthy = "service unavailable"
)

func sendErrorResponse(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(ErrorResponse{Error: message}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// statusFor сопоставляет ошибку ядра с HTTP статусом и безопасным текстом.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrUsernameTaken):
		return fiber.StatusConflict, entities.ErrUsernameTaken.Error()
	case errors.Is(err, entities.ErrEmailTaken):
		return fiber.StatusConflict, entities.ErrEmailTaken.Error()
	case errors.Is(err, entities.ErrConflict):
		return fiber.StatusConflict, ErrorConflict
	case errors.Is(err, entities.ErrInvalidPasswordLength):
		return fiber.StatusUnprocessableEntity, entities.ErrInvalidPasswordLength.Error()
	case errors.Is(err, entities.ErrInvalidEmail):
		return fiber.StatusUnprocessableEntity, entities.ErrInvalidEmail.Error()
	case errors.Is(err, entities.ErrEmptyUsername):
		return fiber.StatusUnprocessableEntity, entities.ErrEmptyUsername.Error()
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusUnprocessableEntity, entities.ErrValidation.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, ErrorUnauthorized
	case errors.Is(err, services.ErrInvalidJWTToken), errors.Is(err, services.ErrExpiredJWTToken):
		return fiber.StatusUnauthorized, ErrorInvalidToken
	case errors.Is(err, entities.ErrUserNotFound):
		return fiber.StatusNotFound, ErrorUserNotFound
	default:
		return fiber.StatusInternalServerError, ErrorInternal
	}
}
