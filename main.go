package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/theraplan/theraplan/cron"
	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/redis"
	"github.com/theraplan/theraplan/routes"
	"github.com/theraplan/theraplan/utils"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	redis.Init()
	utils.InitStripe()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupTherapistRoutes(app)
	routes.SetupClientRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupScheduleRoutes(app)
	routes.SetupCareRoutes(app)
	routes.SetupPaymentRoutes(app)

	utils.StartMailWorker()
	cron.StartCronJobs()

	log.Fatal(app.Listen(":8000"))
}
