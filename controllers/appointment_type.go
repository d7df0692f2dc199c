package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type AppointmentTypeInput struct {
	Name        string  `json:"name"`
	TherapyType string  `json:"therapy_type"`
	TherapyMode string  `json:"therapy_mode"`
	Duration    int     `json:"duration"`
	FeeAmount   float64 `json:"fee_amount"`
	FeeCurrency string  `json:"fee_currency"`
}

func (input *AppointmentTypeInput) validate() map[string]string {
	errors := map[string]string{}
	if input.Name == "" {
		errors["name"] = "Name is required"
	}
	if input.Duration <= 0 {
		errors["duration"] = "Duration must be a positive number of minutes"
	}
	if input.FeeAmount < 0 {
		errors["fee_amount"] = "Fee amount cannot be negative"
	}
	if len(input.FeeCurrency) != 3 {
		errors["fee_currency"] = "Fee currency must be a 3-letter ISO code"
	}
	switch models.TherapyType(input.TherapyType) {
	case models.TherapyIndividual, models.TherapyCouples, models.TherapyFamily, models.TherapyPsychometrics:
	default:
		errors["therapy_type"] = "Invalid therapy type"
	}
	switch models.TherapyMode(input.TherapyMode) {
	case models.ModeInPerson, models.ModeAudio, models.ModeVideo:
	default:
		errors["therapy_mode"] = "Invalid therapy mode"
	}
	return errors
}

// currentTherapist resolves the therapist profile of the authenticated
// user.
func currentTherapist(c *fiber.Ctx) (*models.Therapist, error) {
	userID := c.Locals("userID").(uint)

	var therapist models.Therapist
	if err := db.DB.Where("user_id = ?", userID).First(&therapist).Error; err != nil {
		return nil, fmt.Errorf("therapist profile not found for user %d", userID)
	}
	return &therapist, nil
}

// CreateAppointmentType adds a new bookable offering for the current
// therapist.
func CreateAppointmentType(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	input := new(AppointmentTypeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if errors := input.validate(); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(errors))
	}

	appointmentType := models.AppointmentType{
		TherapistID: therapist.ID,
		Name:        input.Name,
		TherapyType: models.TherapyType(input.TherapyType),
		TherapyMode: models.TherapyMode(input.TherapyMode),
		Duration:    input.Duration,
		FeeAmount:   input.FeeAmount,
		FeeCurrency: input.FeeCurrency,
		Active:      true,
	}
	if err := db.DB.Create(&appointmentType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create appointment type",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(appointmentType)
}

// UpdateAppointmentType edits an offering without rewriting history: the
// referenced row is deactivated and a new active version is created.
// Appointments booked against the old version keep pointing at it.
func UpdateAppointmentType(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var appointmentType models.AppointmentType
	if err := db.DB.First(&appointmentType, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment type not found",
		})
	}
	if appointmentType.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to update this appointment type",
		})
	}

	input := new(AppointmentTypeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if errors := input.validate(); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(errors))
	}

	replacement, err := appointmentType.Replace(db.DB, models.AppointmentType{
		Name:        input.Name,
		TherapyType: models.TherapyType(input.TherapyType),
		TherapyMode: models.TherapyMode(input.TherapyMode),
		Duration:    input.Duration,
		FeeAmount:   input.FeeAmount,
		FeeCurrency: input.FeeCurrency,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update appointment type",
			Error:   err.Error(),
		})
	}

	return c.JSON(replacement)
}

// DeleteAppointmentType soft-deletes an offering so historical
// appointments keep their reference.
func DeleteAppointmentType(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var appointmentType models.AppointmentType
	if err := db.DB.First(&appointmentType, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment type not found",
		})
	}
	if appointmentType.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to delete this appointment type",
		})
	}

	if err := appointmentType.Deactivate(db.DB); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete appointment type",
			Error:   err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
