package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupCareRoutes configures treatment plan and messaging routes
func SetupCareRoutes(app *fiber.App) {
	plans := app.Group("/treatment-plans", middleware.Protected())
	plans.Get("/", controllers.GetTreatmentPlans)
	plans.Get("/:id", controllers.GetTreatmentPlan)
	plans.Post("/", middleware.RequireRole(models.RoleTherapist), controllers.CreateTreatmentPlan)
	plans.Patch("/:id", middleware.RequireRole(models.RoleTherapist), controllers.UpdateTreatmentPlan)
	plans.Delete("/:id", middleware.RequireRole(models.RoleTherapist), controllers.DeleteTreatmentPlan)

	messages := app.Group("/conversations", middleware.Protected())
	messages.Get("/", controllers.GetConversations)
	messages.Get("/:id", controllers.GetConversation)
	messages.Post("/messages", controllers.SendMessage)
}
