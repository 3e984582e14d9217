// Package http содержит HTTP адаптер сервиса идентификации на fiber.
package http

import (
	"github.com/gofiber/fiber/v3"

	"conduit/internal/identity/ports/api"
	svc "conduit/internal/identity/ports/services"
)

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, identity api.IdentityUseCase, tokens svc.TokenService, db Pinger) {
	handler := NewHandler(identity, db)

	// Middleware для всех запросов.
	app.Use(NewLoggerMiddleware())
	app.Use(NewRecoveryMiddleware())

	app.Get("/healthz", handler.Health)

	apiGroup := app.Group("/api")

	// Публичные маршруты.
	apiGroup.Post("/users", handler.Register)
	apiGroup.Post("/users/login", handler.Login)

	// Защищенные маршруты.
	userRoutes := apiGroup.Group("/user")
	userRoutes.Use(NewAuthMiddleware(tokens))
	userRoutes.Get("/", handler.CurrentUser)

	app.Use(func(ctx fiber.Ctx) error {
		return sendErrorResponse(ctx, fiber.StatusNotFound, ErrorRouteNotFound)
	})
}
