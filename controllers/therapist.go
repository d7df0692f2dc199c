package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type TherapistProfileInput struct {
	Country           string `json:"country"`
	Location          string `json:"location"`
	Link              string `json:"link"`
	Bio               string `json:"bio"`
	Affiliation       string `json:"affiliation"`
	Qualifications    string `json:"qualifications"`
	Registrations     string `json:"registrations"`
	YearsOfExperience int    `json:"years_of_experience"`
	TitleIDs          []uint `json:"title_ids"`
	LanguageIDs       []uint `json:"language_ids"`
	SpecialisationIDs []uint `json:"specialisation_ids"`
	InterventionIDs   []uint `json:"intervention_ids"`
}

// GetTherapists lists all therapists visible in the directory: active
// accounts with at least one active appointment type.
func GetTherapists(c *fiber.Ctx) error {
	filter := models.TherapistFilter{}
	therapists, err := filter.Find(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch therapists",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"therapists": therapists,
		"count":      len(therapists),
	})
}

// GetTherapist returns one therapist profile with associations and
// active appointment types.
func GetTherapist(c *fiber.Ctx) error {
	id := c.Params("id")

	var therapist models.Therapist
	err := db.DB.Preload("User").
		Preload("Titles").
		Preload("Languages").
		Preload("Specialisations").
		Preload("Interventions").
		Preload("AppointmentTypes", "active = ?", true).
		Preload("Availabilities").
		First(&therapist, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist not found",
		})
	}

	return c.JSON(therapist)
}

// CreateTherapistProfile creates the therapist profile for the current
// user. A user owns at most one profile.
func CreateTherapistProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var existing models.Therapist
	if db.DB.Where("user_id = ?", userID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Therapist profile already exists",
		})
	}

	input := new(TherapistProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Country == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(map[string]string{
			"country": "Country is required",
		}))
	}

	therapist := models.Therapist{
		UserID:            userID,
		Country:           input.Country,
		Location:          input.Location,
		Link:              input.Link,
		Bio:               input.Bio,
		Affiliation:       input.Affiliation,
		Qualifications:    input.Qualifications,
		Registrations:     input.Registrations,
		YearsOfExperience: input.YearsOfExperience,
	}
	if err := db.DB.Create(&therapist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create therapist profile",
			Error:   err.Error(),
		})
	}

	if err := updateTherapistAssociations(&therapist, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile associations",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(therapist)
}

// UpdateTherapistProfile updates the current user's therapist profile
// and replaces its facet associations.
func UpdateTherapistProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var therapist models.Therapist
	if err := db.DB.First(&therapist, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist not found",
		})
	}
	if therapist.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to update this profile",
		})
	}

	input := new(TherapistProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	therapist.Country = input.Country
	therapist.Location = input.Location
	therapist.Link = input.Link
	therapist.Bio = input.Bio
	therapist.Affiliation = input.Affiliation
	therapist.Qualifications = input.Qualifications
	therapist.Registrations = input.Registrations
	therapist.YearsOfExperience = input.YearsOfExperience
	if err := db.DB.Save(&therapist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update therapist profile",
			Error:   err.Error(),
		})
	}

	if err := updateTherapistAssociations(&therapist, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile associations",
			Error:   err.Error(),
		})
	}

	return c.JSON(therapist)
}

// FilterTherapists runs a faceted directory search.
func FilterTherapists(c *fiber.Ctx) error {
	filter := new(models.TherapistFilter)
	if err := c.BodyParser(filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	therapists, err := filter.Find(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to filter therapists",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"therapists": therapists,
		"count":      len(therapists),
	})
}

// updateTherapistAssociations replaces the therapist's facet memberships
// with the submitted ID lists. Unknown IDs simply do not match and are
// dropped.
func updateTherapistAssociations(therapist *models.Therapist, input *TherapistProfileInput) error {
	titles := []models.Title{}
	if len(input.TitleIDs) > 0 {
		if err := db.DB.Find(&titles, input.TitleIDs).Error; err != nil {
			return err
		}
	}
	if err := db.DB.Model(therapist).Association("Titles").Replace(titles); err != nil {
		return err
	}

	languages := []models.Language{}
	if len(input.LanguageIDs) > 0 {
		if err := db.DB.Find(&languages, input.LanguageIDs).Error; err != nil {
			return err
		}
	}
	if err := db.DB.Model(therapist).Association("Languages").Replace(languages); err != nil {
		return err
	}

	issues := []models.Issue{}
	if len(input.SpecialisationIDs) > 0 {
		if err := db.DB.Find(&issues, input.SpecialisationIDs).Error; err != nil {
			return err
		}
	}
	if err := db.DB.Model(therapist).Association("Specialisations").Replace(issues); err != nil {
		return err
	}

	interventions := []models.Intervention{}
	if len(input.InterventionIDs) > 0 {
		if err := db.DB.Find(&interventions, input.InterventionIDs).Error; err != nil {
			return err
		}
	}
	return db.DB.Model(therapist).Association("Interventions").Replace(interventions)
}
