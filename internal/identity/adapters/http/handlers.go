package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"conduit/internal/identity/ports/api"
	"conduit/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister    = "identity handler: register"
	LogHandlerLogin       = "identity handler: login"
	LogHandlerCurrentUser = "identity handler: current user"

	logInvalidRequest   = "invalid request body"
	logRequestRejected  = "request rejected"
	logErrServeRequest  = "failed to serve request"
	logHealthCheckFault = "health check failed"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler содержит HTTP обработчики сервиса идентификации.
type Handler struct {
	identity api.IdentityUseCase
	db       Pinger
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(identity api.IdentityUseCase, db Pinger) *Handler {
	return &Handler{identity: identity, db: db}
}

// Register обрабатывает POST /api/users.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx)

	var req RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, logInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	log.Info(requestCtx, LogHandlerRegister,
		zap.String("username", req.User.Username),
		zap.String("email", req.User.Email))

	result, err := h.identity.Register(requestCtx, req.User.Username, req.User.Email, req.User.Password)
	if err != nil {
		return h.fail(requestCtx, ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(toUserResponse(result)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Login обрабатывает POST /api/users/login.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx)

	var req LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, logInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	log.Info(requestCtx, LogHandlerLogin, zap.String("email", req.User.Email))

	result, err := h.identity.Login(requestCtx, req.User.Email, req.User.Password)
	if err != nil {
		return h.fail(requestCtx, ctx, err)
	}

	if err := ctx.Status(fiber.StatusOK).JSON(toUserResponse(result)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// CurrentUser обрабатывает GET /api/user. ID пользователя кладет NewAuthMiddleware.
func (h *Handler) CurrentUser(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)

	userID, _ := ctx.Locals(localUserID).(string)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerCurrentUser, zap.String("userID", userID))

	result, err := h.identity.CurrentUser(requestCtx, userID)
	if err != nil {
		return h.fail(requestCtx, ctx, err)
	}

	if err := ctx.Status(fiber.StatusOK).JSON(toUserResponse(result)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Health обрабатывает GET /healthz.
func (h *Handler) Health(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)

	if err := h.db.Ping(requestCtx); err != nil {
		logger.Log(requestCtx).Error(requestCtx, logHealthCheckFault, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusServiceUnavailable, ErrorServiceUnhealthy)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) fail(requestCtx context.Context, ctx fiber.Ctx, err error) error {
	status, message := statusFor(err)
	log := logger.Log(requestCtx)
	if status >= fiber.StatusInternalServerError {
		log.Error(requestCtx, logErrServeRequest, zap.Error(err))
	} else {
		log.Debug(requestCtx, logRequestRejected, zap.Int("status", status), zap.Error(err))
	}
	return sendErrorResponse(ctx, status, message)
}
