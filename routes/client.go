package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/controllers"
	"github.com/theraplan/theraplan/middleware"
	"github.com/theraplan/theraplan/models"
)

// SetupClientRoutes configures client profile and account routes
func SetupClientRoutes(app *fiber.App) {
	clients := app.Group("/clients", middleware.Protected())
	clients.Get("/me", middleware.RequireRole(models.RoleClient), controllers.GetClientProfile)
	clients.Post("/", middleware.RequireRole(models.RoleClient), controllers.CreateClientProfile)
	clients.Patch("/me", middleware.RequireRole(models.RoleClient), controllers.UpdateClientProfile)

	users := app.Group("/users", middleware.Protected())
	users.Patch("/me", controllers.UpdateUserProfile)
	users.Patch("/me/photo", controllers.UpdateProfilePhoto)
	users.Delete("/me", controllers.DeactivateAccount)
}
