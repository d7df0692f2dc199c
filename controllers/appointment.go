package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

// currentClient resolves the client profile of the authenticated user.
func currentClient(c *fiber.Ctx) (*models.Client, error) {
	userID := c.Locals("userID").(uint)

	var client models.Client
	if err := db.DB.Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, fmt.Errorf("client profile not found for user %d", userID)
	}
	return &client, nil
}

// loadOwnAppointment fetches the appointment and verifies that the
// authenticated user is one of its two parties.
func loadOwnAppointment(c *fiber.Ctx) (*models.Appointment, models.UserRole, error) {
	role := models.UserRole(c.Locals("role").(string))

	var appointment models.Appointment
	err := db.DB.
		Preload("Therapist.User").
		Preload("Client.User").
		Preload("AppointmentType").
		Preload("Notes").
		Preload("Exercise").
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return nil, role, models.ErrNotFound
	}

	switch role {
	case models.RoleTherapist:
		therapist, err := currentTherapist(c)
		if err != nil || appointment.TherapistID != therapist.ID {
			return nil, role, models.ErrForbidden
		}
	case models.RoleClient:
		client, err := currentClient(c)
		if err != nil || appointment.ClientID != client.ID {
			return nil, role, models.ErrForbidden
		}
	default:
		return nil, role, models.ErrForbidden
	}
	return &appointment, role, nil
}

// GetAppointments lists the authenticated user's appointments, newest
// first. Supports ?status= and ?upcoming=true filters for dashboards.
func GetAppointments(c *fiber.Ctx) error {
	role := models.UserRole(c.Locals("role").(string))

	query := db.DB.
		Preload("Therapist.User").
		Preload("Client.User").
		Preload("AppointmentType")

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
		query = query.Where("client_id = ?", client.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("time >= ?", time.Now()).Order("time asc")
	} else {
		query = query.Order("time desc")
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

type AppointmentFilterInput struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	From          string `json:"from"` // RFC 3339
	To            string `json:"to"`
}

// FilterAppointments runs a dashboard search over the authenticated
// user's own appointments.
func FilterAppointments(c *fiber.Ctx) error {
	role := models.UserRole(c.Locals("role").(string))

	input := new(AppointmentFilterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	query := db.DB.
		Preload("Therapist.User").
		Preload("Client.User").
		Preload("AppointmentType").
		Order("time desc")

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
		query = query.Where("client_id = ?", client.ID)
	}

	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}
	if input.PaymentStatus != "" {
		query = query.Where("payment_status = ?", input.PaymentStatus)
	}
	if input.From != "" {
		from, err := time.Parse(time.RFC3339, input.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from must be RFC 3339",
			})
		}
		query = query.Where("time >= ?", from)
	}
	if input.To != "" {
		to, err := time.Parse(time.RFC3339, input.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to must be RFC 3339",
			})
		}
		query = query.Where("time < ?", to)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to filter appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// GetAppointment returns a single appointment for either of its parties.
func GetAppointment(c *fiber.Ctx) error {
	appointment, role, err := loadOwnAppointment(c)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this appointment",
		})
	}

	// Session notes are the therapist's private record.
	if role == models.RoleClient {
		appointment.Notes = nil
	}
	return c.JSON(appointment)
}

type BookAppointmentInput struct {
	TherapistID       uint   `json:"therapist_id"`
	AppointmentTypeID uint   `json:"appointment_type_id"`
	Time              string `json:"time"` // RFC 3339
}

// BookAppointment creates a new appointment for the authenticated client.
// The slot is validated and inserted atomically so two clients racing for
// the same slot cannot both succeed.
func BookAppointment(c *fiber.Ctx) error {
	client, err := currentClient(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}

	input := new(BookAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	start, err := time.Parse(time.RFC3339, input.Time)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "time must be RFC 3339, e.g. 2026-09-07T10:00:00Z",
		})
	}
	if start.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot book an appointment in the past",
		})
	}

	var therapist models.Therapist
	if err := db.DB.Preload("User").First(&therapist, input.TherapistID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist not found",
		})
	}

	var appointmentType models.AppointmentType
	err = db.DB.Where("id = ? AND therapist_id = ? AND active = ?",
		input.AppointmentTypeID, therapist.ID, true).
		First(&appointmentType).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment type not found or no longer offered",
		})
	}

	appointment := models.Appointment{
		TherapistID:       therapist.ID,
		ClientID:          client.ID,
		AppointmentTypeID: appointmentType.ID,
		Time:              start,
		Status:            models.StatusScheduled,
		PaymentStatus:     models.PaymentPending,
	}

	if err := utils.BookSlot(db.DB, &appointment, &appointmentType); err != nil {
		switch {
		case errors.Is(err, models.ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "The requested slot is already booked",
			})
		case errors.Is(err, utils.ErrOutsideAvailability):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "The requested slot is outside the therapist's availability",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to book appointment",
				Error:   err.Error(),
			})
		}
	}

	appointment.Therapist = therapist
	appointment.AppointmentType = appointmentType

	var clientUser models.User
	if err := db.DB.First(&clientUser, client.UserID).Error; err == nil {
		utils.SendAppointmentUpdateEmail(&appointment, &clientUser, utils.SubjectAppointmentScheduled)
	}
	utils.SendAppointmentUpdateEmail(&appointment, &therapist.User, utils.SubjectAppointmentScheduled)

	response := fiber.Map{"appointment": appointment}
	if therapist.StripeAccountID != "" {
		checkoutURL, err := utils.CreateCheckoutSession(&appointment, &appointmentType, therapist.StripeAccountID)
		if err == nil {
			response["checkout_url"] = checkoutURL
		}
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

type AppointmentStatusInput struct {
	Status  string `json:"status"`
	NewTime string `json:"new_time,omitempty"` // RFC 3339, rescheduling only
}

// UpdateAppointmentStatus applies a lifecycle transition. Who may do what
// is enforced by the appointment itself: confirmation, completion and
// no-show marking are therapist actions, cancelling and rescheduling are
// open to both parties.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	appointment, role, err := loadOwnAppointment(c)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this appointment",
		})
	}

	input := new(AppointmentStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	newStatus := models.AppointmentStatus(input.Status)
	switch newStatus {
	case models.StatusConfirmed, models.StatusCompleted, models.StatusRescheduled,
		models.StatusCancelled, models.StatusNoShow:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	if newStatus == models.StatusRescheduled {
		return rescheduleAppointment(c, appointment, role, input.NewTime)
	}

	if err := appointment.UpdateStatus(db.DB, role, newStatus); err != nil {
		return transitionError(c, err)
	}

	switch newStatus {
	case models.StatusConfirmed:
		utils.SendAppointmentUpdateEmail(appointment, &appointment.Client.User, utils.SubjectAppointmentConfirmed)
	case models.StatusCancelled:
		notifyOtherParty(appointment, role, utils.SubjectAppointmentCancelled)
	case models.StatusNoShow:
		utils.SendAppointmentUpdateEmail(appointment, &appointment.Client.User, utils.SubjectAppointmentNoShow)
	}

	return c.JSON(appointment)
}

// rescheduleAppointment validates the new slot inside the same
// transaction that moves the appointment, so the move cannot land on a
// slot that was taken meanwhile. The appointment's own slot does not
// block its move because the overlap check skips it.
func rescheduleAppointment(c *fiber.Ctx, appointment *models.Appointment, role models.UserRole, newTimeRaw string) error {
	newTime, err := time.Parse(time.RFC3339, newTimeRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "new_time must be RFC 3339 when rescheduling",
		})
	}
	if newTime.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot reschedule into the past",
		})
	}

	duration := time.Duration(appointment.AppointmentType.Duration) * time.Minute
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.CheckBookable(tx, appointment.TherapistID, newTime, duration, appointment.ID); err != nil {
			return err
		}
		return appointment.Reschedule(tx, role, newTime)
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "The requested slot is already booked",
			})
		case errors.Is(err, utils.ErrOutsideAvailability):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "The requested slot is outside the therapist's availability",
			})
		default:
			return transitionError(c, err)
		}
	}

	notifyOtherParty(appointment, role, utils.SubjectAppointmentRescheduled)
	return c.JSON(appointment)
}

func transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Your role cannot perform this transition",
		})
	case errors.Is(err, models.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "This status change is not allowed from the appointment's current state",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update appointment",
			Error:   err.Error(),
		})
	}
}

// notifyOtherParty emails the party who did not initiate the change.
func notifyOtherParty(appointment *models.Appointment, actor models.UserRole, subject utils.EmailSubject) {
	if actor == models.RoleTherapist {
		utils.SendAppointmentUpdateEmail(appointment, &appointment.Client.User, subject)
	} else {
		utils.SendAppointmentUpdateEmail(appointment, &appointment.Therapist.User, subject)
	}
}

type AppointmentNoteInput struct {
	Text            string `json:"text"`
	Efficacy        int    `json:"efficacy"`
	IssueIDs        []uint `json:"issue_ids"`
	InterventionIDs []uint `json:"intervention_ids"`
}

// UpsertAppointmentNotes creates or updates the therapist's private
// session notes for an appointment.
func UpsertAppointmentNotes(c *fiber.Ctx) error {
	appointment, _, err := loadOwnAppointment(c)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this appointment",
		})
	}

	input := new(AppointmentNoteInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Efficacy < 0 || input.Efficacy > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "efficacy must be between 0 and 5",
		})
	}

	note := appointment.Notes
	if note == nil {
		note = &models.AppointmentNote{AppointmentID: appointment.ID}
	}
	note.Text = input.Text
	note.Efficacy = input.Efficacy
	note.LastUpdated = time.Now()

	if err := db.DB.Save(note).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save notes",
			Error:   err.Error(),
		})
	}

	issues := []models.Issue{}
	if len(input.IssueIDs) > 0 {
		db.DB.Find(&issues, input.IssueIDs)
	}
	if err := db.DB.Model(note).Association("Issues").Replace(issues); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save note issues",
			Error:   err.Error(),
		})
	}

	interventions := []models.Intervention{}
	if len(input.InterventionIDs) > 0 {
		db.DB.Find(&interventions, input.InterventionIDs)
	}
	if err := db.DB.Model(note).Association("Interventions").Replace(interventions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save note interventions",
			Error:   err.Error(),
		})
	}

	note.Issues = issues
	note.Interventions = interventions
	return c.JSON(note)
}

type TherapyExerciseInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ClientResponse string `json:"client_response"`
	Completed      *bool  `json:"completed"`
}

// UpsertTherapyExercise manages the homework attached to an appointment.
// The therapist sets the assignment itself, the client only fills in the
// response and completion flag.
func UpsertTherapyExercise(c *fiber.Ctx) error {
	appointment, role, err := loadOwnAppointment(c)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this appointment",
		})
	}

	input := new(TherapyExerciseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	exercise := appointment.Exercise
	if exercise == nil {
		if role != models.RoleTherapist {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only the therapist can assign an exercise",
			})
		}
		exercise = &models.TherapyExercise{AppointmentID: appointment.ID}
	}

	switch role {
	case models.RoleTherapist:
		exercise.Title = input.Title
		exercise.Description = input.Description
	case models.RoleClient:
		exercise.ClientResponse = input.ClientResponse
	}
	if input.Completed != nil {
		exercise.Completed = *input.Completed
	}

	if err := db.DB.Save(exercise).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save exercise",
			Error:   err.Error(),
		})
	}
	return c.JSON(exercise)
}
