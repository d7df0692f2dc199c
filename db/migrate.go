package db

import (
	"log"

	"github.com/theraplan/theraplan/models"
)

// Migrate applies the schema and seeds the reference tables. Call
// explicitly (e.g. on startup) after Init.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Therapist{},
		&models.Client{},
		&models.Title{},
		&models.Language{},
		&models.Issue{},
		&models.Intervention{},
		&models.AppointmentType{},
		&models.Appointment{},
		&models.AppointmentNote{},
		&models.TherapyExercise{},
		&models.Availability{},
		&models.Unavailability{},
		&models.TreatmentPlan{},
		&models.Conversation{},
		&models.Message{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	if err := SeedLookups(DB); err != nil {
		log.Fatal("Failed to seed lookup tables: ", err)
	}

	log.Println("Migrations applied")
}
