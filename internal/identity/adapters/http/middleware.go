package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	svc "conduit/internal/identity/ports/services"
	"conduit/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

const (
	localRequestID = "requestID"
	localUserID    = "userID"

	logRequestStarted   = "request started"
	logRequestCompleted = "request completed"
	logRequestFailed    = "request failed"
	logServerPanic      = "server panic"
	logAuthRejected     = "authorization rejected"
	logErrPanicResponse = "failed to send error response after panic"
)

// Схемы заголовка Authorization. "Token" используется клиентами conduit.
var authSchemes = []string{"Token ", "Bearer "}

// requestContext возвращает контекст запроса с его request_id.
func requestContext(ctx fiber.Ctx) context.Context {
	id, _ := ctx.Locals(localRequestID).(string)
	if id == "" {
		return ctx.Context()
	}
	return logger.NewRequestIDContext(ctx.Context(), id)
}

// NewLoggerMiddleware присваивает запросу идентификатор и логирует его начало и завершение.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx.Locals(localRequestID, requestID)
		ctx.Set(HeaderRequestID, requestID)

		requestCtx := requestContext(ctx)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)
		log.Debug(requestCtx, logRequestStarted)

		err := ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			log.Error(requestCtx, logRequestFailed, append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, logRequestCompleted, fields...)
		return nil
	}
}

// NewRecoveryMiddleware превращает панику обработчика в ответ 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := requestContext(ctx)

		defer func() {
			if r := recover(); r != nil {
				log := logger.Log(requestCtx)
				log.Error(requestCtx, logServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				if sendErr := sendErrorResponse(ctx, fiber.StatusInternalServerError, ErrorInternal); sendErr != nil {
					log.Error(requestCtx, logErrPanicResponse, zap.Error(sendErr))
				}
				err = nil
			}
		}()

		return ctx.Next()
	}
}

// NewAuthMiddleware проверяет токен из заголовка Authorization и кладет
// ID пользователя в Locals.
func NewAuthMiddleware(tokens svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := requestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

		token, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Debug(requestCtx, logAuthRejected)
			return sendErrorResponse(ctx, fiber.StatusUnauthorized, ErrorInvalidToken)
		}

		userID, err := tokens.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, logAuthRejected, zap.Error(err))
			return sendErrorResponse(ctx, fiber.StatusUnauthorized, ErrorInvalidToken)
		}

		ctx.Locals(localUserID, userID)
		return ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	for _, scheme := range authSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			token := strings.TrimSpace(header[len(scheme):])
			return token, token != ""
		}
	}
	return "", false
}
