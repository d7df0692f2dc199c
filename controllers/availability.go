package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

// GetAvailability lists the recurring weekly windows of a therapist.
// Public so clients can see when a therapist works before booking.
func GetAvailability(c *fiber.Ctx) error {
	var windows []models.Availability
	err := db.DB.Where("therapist_id = ?", c.Params("therapistId")).
		Order("day_of_week, start_time").
		Find(&windows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(windows)
}

// GetMyAvailability lists the current therapist's own windows.
func GetMyAvailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var windows []models.Availability
	err = db.DB.Where("therapist_id = ?", therapist.ID).
		Order("day_of_week, start_time").
		Find(&windows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(windows)
}

type AvailabilityInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateAvailability adds a weekly window for the current therapist.
func CreateAvailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	input := new(AvailabilityInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.DayOfWeek < int(models.Sunday) || input.DayOfWeek > int(models.Saturday) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "day_of_week must be between 0 (Sunday) and 6 (Saturday)",
		})
	}

	window := models.Availability{
		TherapistID: therapist.ID,
		DayOfWeek:   models.DayOfWeek(input.DayOfWeek),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if err := db.DB.Create(&window).Error; err != nil {
		if errors.Is(err, models.ErrOverlappingWindow) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Window overlaps an existing availability window",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to create availability window",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(window)
}

// DeleteAvailability removes a weekly window.
func DeleteAvailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var window models.Availability
	if err := db.DB.First(&window, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability window not found",
		})
	}
	if window.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to delete this window",
		})
	}

	if err := db.DB.Delete(&window).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete availability window",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type UnavailabilityInput struct {
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// GetUnavailability lists the date-range exceptions of the current
// therapist.
func GetUnavailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var spans []models.Unavailability
	err = db.DB.Where("therapist_id = ?", therapist.ID).
		Order("start_date").
		Find(&spans).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch unavailability",
			Error:   err.Error(),
		})
	}
	return c.JSON(spans)
}

// CreateUnavailability records a vacation or leave span that overrides
// the weekly windows.
func CreateUnavailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	input := new(UnavailabilityInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_date must be YYYY-MM-DD",
		})
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "end_date must be YYYY-MM-DD",
		})
	}
	if end.Before(start) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "end_date cannot be before start_date",
		})
	}

	span := models.Unavailability{
		TherapistID: therapist.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      input.Reason,
	}
	if err := db.DB.Create(&span).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create unavailability",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(span)
}

// DeleteUnavailability removes a date-range exception.
func DeleteUnavailability(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var span models.Unavailability
	if err := db.DB.First(&span, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unavailability not found",
		})
	}
	if span.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to delete this entry",
		})
	}

	if err := db.DB.Delete(&span).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete unavailability",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
