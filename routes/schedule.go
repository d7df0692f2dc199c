package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupScheduleRoutes configures the therapist's offering and calendar
// management routes
func SetupScheduleRoutes(app *fiber.App) {
	therapistOnly := []fiber.Handler{middleware.Protected(), middleware.RequireRole(models.RoleTherapist)}

	types := app.Group("/appointment-types", therapistOnly...)
	types.Post("/", controllers.CreateAppointmentType)
	types.Patch("/:id", controllers.UpdateAppointmentType)
	types.Delete("/:id", controllers.DeleteAppointmentType)

	availability := app.Group("/availability", therapistOnly...)
	availability.Get("/", controllers.GetMyAvailability)
	availability.Post("/", controllers.CreateAvailability)
	availability.Delete("/:id", controllers.DeleteAvailability)

	unavailability := app.Group("/unavailability", therapistOnly...)
	unavailability.Get("/", controllers.GetUnavailability)
	unavailability.Post("/", controllers.CreateUnavailability)
	unavailability.Delete("/:id", controllers.DeleteUnavailability)
}
