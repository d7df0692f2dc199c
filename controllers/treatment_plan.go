package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type TreatmentPlanInput struct {
	ClientID                 uint   `json:"client_id"`
	IssuesDescription        string `json:"issues_description"`
	InterventionsDescription string `json:"interventions_description"`
	Goals                    string `json:"goals"`
	Medication               string `json:"medication"`
	ClientCanView            *bool  `json:"client_can_view"`
	IssueIDs                 []uint `json:"issue_ids"`
	InterventionIDs          []uint `json:"intervention_ids"`
}

// GetTreatmentPlans lists plans visible to the authenticated user:
// therapists see everything they authored, clients only the plans their
// therapist shared with them.
func GetTreatmentPlans(c *fiber.Ctx) error {
	role := models.UserRole(c.Locals("role").(string))

	query := db.DB.Preload("Issues").Preload("Interventions").Order("last_updated desc")
	switch role {
	case models.RoleTherapist:
		therapist, err := currentTherapist(c)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Therapist profile not found",
			})
		}
		query = query.Where("therapist_id = ?", therapist.ID)
	case models.RoleClient:
		client, err := currentClient(c)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client profile not found",
			})
		}
		query = query.Where("client_id = ? AND client_can_view = ?", client.ID, true)
	}

	var plans []models.TreatmentPlan
	if err := query.Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch treatment plans",
			Error:   err.Error(),
		})
	}
	return c.JSON(plans)
}

// GetTreatmentPlan returns a single plan. Clients only see plans marked
// viewable by their therapist.
func GetTreatmentPlan(c *fiber.Ctx) error {
	var plan models.TreatmentPlan
	err := db.DB.Preload("Issues").Preload("Interventions").
		First(&plan, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Treatment plan not found",
		})
	}

	role := models.UserRole(c.Locals("role").(string))
	switch role {
	case models.RoleTherapist:
		therapist, err := currentTherapist(c)
		if err != nil || plan.TherapistID != therapist.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have access to this treatment plan",
			})
		}
	case models.RoleClient:
		client, err := currentClient(c)
		if err != nil || plan.ClientID != client.ID || !plan.ClientCanView {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have access to this treatment plan",
			})
		}
	}
	return c.JSON(plan)
}

// CreateTreatmentPlan authors a new plan for one of the therapist's
// clients.
func CreateTreatmentPlan(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	input := new(TreatmentPlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var client models.Client
	if err := db.DB.First(&client, input.ClientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client not found",
		})
	}

	plan := models.TreatmentPlan{
		TherapistID:              therapist.ID,
		ClientID:                 client.ID,
		IssuesDescription:        input.IssuesDescription,
		InterventionsDescription: input.InterventionsDescription,
		Goals:                    input.Goals,
		Medication:               input.Medication,
		ClientCanView:            true,
	}
	if input.ClientCanView != nil {
		plan.ClientCanView = *input.ClientCanView
	}

	if err := db.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create treatment plan",
			Error:   err.Error(),
		})
	}
	if err := replacePlanAssociations(&plan, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to link plan issues and interventions",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdateTreatmentPlan edits a plan the therapist authored.
func UpdateTreatmentPlan(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var plan models.TreatmentPlan
	if err := db.DB.First(&plan, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Treatment plan not found",
		})
	}
	if plan.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to update this treatment plan",
		})
	}

	input := new(TreatmentPlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	plan.IssuesDescription = input.IssuesDescription
	plan.InterventionsDescription = input.InterventionsDescription
	plan.Goals = input.Goals
	plan.Medication = input.Medication
	if input.ClientCanView != nil {
		plan.ClientCanView = *input.ClientCanView
	}

	if err := db.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update treatment plan",
			Error:   err.Error(),
		})
	}
	if err := replacePlanAssociations(&plan, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to link plan issues and interventions",
			Error:   err.Error(),
		})
	}
	return c.JSON(plan)
}

// DeleteTreatmentPlan removes a plan the therapist authored.
func DeleteTreatmentPlan(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	var plan models.TreatmentPlan
	if err := db.DB.First(&plan, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Treatment plan not found",
		})
	}
	if plan.TherapistID != therapist.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to delete this treatment plan",
		})
	}

	if err := db.DB.Delete(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete treatment plan",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func replacePlanAssociations(plan *models.TreatmentPlan, input *TreatmentPlanInput) error {
	issues := []models.Issue{}
	if len(input.IssueIDs) > 0 {
		if err := db.DB.Find(&issues, input.IssueIDs).Error; err != nil {
			return err
		}
	}
	if err := db.DB.Model(plan).Association("Issues").Replace(issues); err != nil {
		return err
	}

	interventions := []models.Intervention{}
	if len(input.InterventionIDs) > 0 {
		if err := db.DB.Find(&interventions, input.InterventionIDs).Error; err != nil {
			return err
		}
	}
	if err := db.DB.Model(plan).Association("Interventions").Replace(interventions); err != nil {
		return err
	}

	plan.Issues = issues
	plan.Interventions = interventions
	return nil
}
