package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	watchHandler *WatchHandler,
	deviceHandler *DeviceHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
	requireStudent fiber.Handler,
	requireAdmin fiber.Handler,
	loginLimit fiber.Handler,
	signupLimit fiber.Handler,
	verifyLimit fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// API v1
	api := app.Group("/api/v1")

	// Auth routes (public, abuse-dampened)
	auth := api.Group("/auth")
	auth.Post("/register", signupLimit, authHandler.Register)
	auth.Post("/login", loginLimit, authHandler.Login)
	auth.Post("/logout", authMiddleware, authHandler.Logout)
	auth.Post("/verify/send", verifyLimit, authHandler.SendVerificationCode)
	auth.Post("/verify/confirm", authHandler.ConfirmVerificationCode)

	// User routes (protected)
	users := api.Group("/users", authMiddleware)
	users.Get("/me", authHandler.GetMe)
	users.Get("/me/devices", deviceHandler.GetMyDevices)

	// Playback progress (students with an approved enrollment)
	api.Post("/progress", authMiddleware, requireStudent, watchHandler.ReportProgress)

	// Support tooling (admin only)
	admin := api.Group("/admin", authMiddleware, requireAdmin)
	admin.Post("/watch/:viewerId/:lessonId/reset", watchHandler.ResetWatchState)
	admin.Put("/watch/:viewerId/:lessonId", watchHandler.OverrideWatchState)
}
