package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/refresh", controllers.RefreshToken)
	auth.Get("/email-verification/:token", controllers.VerifyEmail)
	auth.Post("/forgot-password", controllers.RequestPasswordReset)
	auth.Post("/reset-password", controllers.ResetPassword)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.Me)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
}
