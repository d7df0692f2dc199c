package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB returns an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&User{},
		&Therapist{},
		&Client{},
		&Title{},
		&Language{},
		&Issue{},
		&Intervention{},
		&AppointmentType{},
		&Availability{},
		&Unavailability{},
		&Appointment{},
		&AppointmentNote{},
		&TherapyExercise{},
		&TreatmentPlan{},
		&Conversation{},
		&Message{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

// seedTherapist creates a user plus therapist profile with one active
// offering, returning the therapist with its user preloaded.
func seedTherapist(t *testing.T, db *gorm.DB, firstName, lastName string) *Therapist {
	t.Helper()

	user := User{
		Email:     firstName + "." + lastName + "@example.com",
		Password:  "irrelevant",
		FirstName: firstName,
		LastName:  lastName,
		Role:      RoleTherapist,
		Verified:  true,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed therapist user: %v", err)
	}

	therapist := Therapist{UserID: user.ID, Country: "United Kingdom"}
	if err := db.Create(&therapist).Error; err != nil {
		t.Fatalf("seed therapist: %v", err)
	}
	therapist.User = user

	appointmentType := AppointmentType{
		TherapistID: therapist.ID,
		Name:        "Initial Consultation",
		TherapyType: TherapyIndividual,
		TherapyMode: ModeVideo,
		Duration:    60,
		FeeAmount:   80,
		FeeCurrency: "GBP",
		Active:      true,
	}
	if err := db.Create(&appointmentType).Error; err != nil {
		t.Fatalf("seed appointment type: %v", err)
	}
	therapist.AppointmentTypes = []AppointmentType{appointmentType}
	return &therapist
}

// seedClient creates a user plus client profile.
func seedClient(t *testing.T, db *gorm.DB, firstName, lastName string) *Client {
	t.Helper()

	user := User{
		Email:     firstName + "." + lastName + "@example.com",
		Password:  "irrelevant",
		FirstName: firstName,
		LastName:  lastName,
		Role:      RoleClient,
		Verified:  true,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed client user: %v", err)
	}

	client := Client{UserID: user.ID}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	client.User = user
	return &client
}
