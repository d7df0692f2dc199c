package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupTherapistRoutes configures the therapist directory and profile routes
func SetupTherapistRoutes(app *fiber.App) {
	therapists := app.Group("/therapists")

	// Public directory
	therapists.Get("/", controllers.GetTherapists)
	therapists.Post("/filter", controllers.FilterTherapists)
	therapists.Get("/:id", controllers.GetTherapist)
	therapists.Get("/:therapistId/availability", controllers.GetAvailability)

	// Profile management
	therapists.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleTherapist), controllers.CreateTherapistProfile)
	therapists.Patch("/:id", middleware.Protected(), middleware.RequireRole(models.RoleTherapist), controllers.UpdateTherapistProfile)
}
