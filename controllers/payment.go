package controllers

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

// CreateStripeAccount provisions a connected account for the current
// therapist and returns the onboarding link. Calling it again for an
// already connected therapist just issues a fresh link.
func CreateStripeAccount(c *fiber.Ctx) error {
	therapist, err := currentTherapist(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Therapist profile not found",
		})
	}

	if therapist.StripeAccountID == "" {
		var user models.User
		if err := db.DB.First(&user, therapist.UserID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load account",
				Error:   err.Error(),
			})
		}

		accountID, err := utils.CreateConnectedAccount(user.Email)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
				Message: "Failed to create payment account",
				Error:   err.Error(),
			})
		}
		if err := db.DB.Model(therapist).Update("stripe_account_id", accountID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to save payment account",
				Error:   err.Error(),
			})
		}
		therapist.StripeAccountID = accountID
	}

	onboardingURL, err := utils.CreateOnboardingLink(therapist.StripeAccountID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Message: "Failed to create onboarding link",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"stripe_account_id": therapist.StripeAccountID,
		"onboarding_url":    onboardingURL,
	})
}

// CreateCheckout starts a payment for one of the client's pending
// appointments.
func CreateCheckout(c *fiber.Ctx) error {
	client, err := currentClient(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client profile not found",
		})
	}

	var appointment models.Appointment
	err = db.DB.Preload("Therapist").Preload("AppointmentType").
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}
	if appointment.ClientID != client.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this appointment",
		})
	}
	if appointment.PaymentStatus == models.PaymentPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This appointment is already paid",
		})
	}
	if !appointment.BlocksSlot() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This appointment can no longer be paid",
		})
	}

	checkoutURL, err := utils.CreateCheckoutSession(
		&appointment, &appointment.AppointmentType, appointment.Therapist.StripeAccountID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Message: "Failed to start payment",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"checkout_url": checkoutURL})
}

// StripeWebhook receives payment events from Stripe and updates the
// appointment's payment status. The signature check rejects anything not
// signed with our endpoint secret.
func StripeWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(
		c.Body(),
		c.Get("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	switch event.Type {
	case "checkout.session.completed":
		return applyCheckoutResult(c, event, models.PaymentPaid)
	case "checkout.session.expired":
		return applyCheckoutResult(c, event, models.PaymentFailed)
	default:
		return c.SendStatus(fiber.StatusOK)
	}
}

func applyCheckoutResult(c *fiber.Ctx, event stripe.Event, status models.PaymentStatus) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Malformed event payload",
		})
	}

	appointmentID, err := strconv.ParseUint(sess.ClientReferenceID, 10, 64)
	if err != nil {
		log.Printf("stripe webhook: unparseable client reference %q", sess.ClientReferenceID)
		return c.SendStatus(fiber.StatusOK)
	}

	var appointment models.Appointment
	err = db.DB.Preload("Client.User").Preload("Therapist.User").Preload("AppointmentType").
		First(&appointment, uint(appointmentID)).Error
	if err != nil {
		log.Printf("stripe webhook: appointment %d not found", appointmentID)
		return c.SendStatus(fiber.StatusOK)
	}

	if err := db.DB.Model(&appointment).Update("payment_status", status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to record payment",
			Error:   err.Error(),
		})
	}

	if status == models.PaymentFailed {
		utils.SendAppointmentUpdateEmail(&appointment, &appointment.Client.User, utils.SubjectPaymentFailed)
	}
	return c.SendStatus(fiber.StatusOK)
}
