package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupPaymentRoutes configures payment onboarding, checkout and the
// Stripe webhook
func SetupPaymentRoutes(app *fiber.App) {
	payments := app.Group("/payments")

	payments.Post("/account", middleware.Protected(), middleware.RequireRole(models.RoleTherapist), controllers.CreateStripeAccount)
	payments.Post("/checkout/:id", middleware.Protected(), middleware.RequireRole(models.RoleClient), controllers.CreateCheckout)

	// Authenticated by the Stripe signature, not a JWT.
	payments.Post("/webhook", controllers.StripeWebhook)
}
