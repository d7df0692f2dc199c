package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type UserProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Timezone  string `json:"timezone"`
}

// UpdateUserProfile updates display attributes on the current user's
// account. Email and role are immutable here.
func UpdateUserProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	input := new(UserProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	errors := map[string]string{}
	if input.FirstName == "" {
		errors["first_name"] = "First name is required"
	}
	if input.LastName == "" {
		errors["last_name"] = "Last name is required"
	}
	if len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(errors))
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Gender = models.Gender(input.Gender)
	user.Timezone = input.Timezone
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   err.Error(),
		})
	}

	return c.JSON(user)
}

// UpdateProfilePhoto uploads a new profile image and stores its URL.
func UpdateProfilePhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	url, err := utils.UploadProfilePhoto(file, fmt.Sprintf("user_%d", userID))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save photo URL",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"photo_url": url,
	})
}

// DeactivateAccount soft-deletes the current user: the account is marked
// inactive and disappears from the directory, while historical
// appointments are retained.
func DeactivateAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to deactivate account",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Account deactivated",
	})
}
