package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupAppointmentRoutes configures booking and lifecycle routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointments := app.Group("/appointments", middleware.Protected())

	appointments.Get("/", controllers.GetAppointments)
	appointments.Post("/filter", controllers.FilterAppointments)
	appointments.Get("/:id", controllers.GetAppointment)
	appointments.Post("/", middleware.RequireRole(models.RoleClient), controllers.BookAppointment)
	appointments.Patch("/:id/status", controllers.UpdateAppointmentStatus)

	appointments.Put("/:id/notes", middleware.RequireRole(models.RoleTherapist), controllers.UpsertAppointmentNotes)
	appointments.Put("/:id/exercise", controllers.UpsertTherapyExercise)
}
