package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type ClientProfileInput struct {
	DateOfBirth           string `json:"date_of_birth"` // "2006-01-02"
	Occupation            string `json:"occupation"`
	Address               string `json:"address"`
	Phone                 string `json:"phone"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	ReferralSource        string `json:"referral_source"`
	IssueIDs              []uint `json:"issue_ids"`
}

// GetClientProfile returns the current user's client profile.
func GetClientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var client models.Client
	err := db.DB.Preload("User").Preload("Issues").
		Where("user_id = ?", userID).First(&client).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}

	return c.JSON(client)
}

// CreateClientProfile creates the client profile for the current user.
func CreateClientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var existing models.Client
	if db.DB.Where("user_id = ?", userID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Client profile already exists",
		})
	}

	input := new(ClientProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	dateOfBirth, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(map[string]string{
			"date_of_birth": "Date of birth must be in YYYY-MM-DD format",
		}))
	}

	client := models.Client{
		UserID:                userID,
		DateOfBirth:           dateOfBirth,
		Occupation:            input.Occupation,
		Address:               input.Address,
		Phone:                 input.Phone,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		ReferralSource:        input.ReferralSource,
	}
	if err := db.DB.Create(&client).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create client profile",
			Error:   err.Error(),
		})
	}

	if err := replaceClientIssues(&client, input.IssueIDs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update client issues",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClientProfile updates the current user's client profile.
func UpdateClientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var client models.Client
	if db.DB.Where("user_id = ?", userID).First(&client).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}

	input := new(ClientProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.DateOfBirth != "" {
		dateOfBirth, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(map[string]string{
				"date_of_birth": "Date of birth must be in YYYY-MM-DD format",
			}))
		}
		client.DateOfBirth = dateOfBirth
	}
	client.Occupation = input.Occupation
	client.Address = input.Address
	client.Phone = input.Phone
	client.EmergencyContactName = input.EmergencyContactName
	client.EmergencyContactPhone = input.EmergencyContactPhone
	client.ReferralSource = input.ReferralSource

	if err := db.DB.Save(&client).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update client profile",
			Error:   err.Error(),
		})
	}

	if err := replaceClientIssues(&client, input.IssueIDs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update client issues",
			Error:   err.Error(),
		})
	}

	return c.JSON(client)
}

func replaceClientIssues(client *models.Client, issueIDs []uint) error {
	issues := []models.Issue{}
	if len(issueIDs) > 0 {
		if err := db.DB.Find(&issues, issueIDs).Error; err != nil {
			return err
		}
	}
	return db.DB.Model(client).Association("Issues").Replace(issues)
}
