package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

// GetConversations lists the authenticated user's message threads.
func GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var conversations []models.Conversation
	err := db.DB.
		Preload("TherapistUser").
		Preload("ClientUser").
		Where("therapist_user_id = ? OR client_user_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&conversations).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch conversations",
			Error:   err.Error(),
		})
	}
	return c.JSON(conversations)
}

// GetConversation returns one thread with its messages, oldest first.
func GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var conversation models.Conversation
	err := db.DB.
		Preload("TherapistUser").
		Preload("ClientUser").
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp asc")
		}).
		Preload("Messages.Author").
		First(&conversation, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}
	if conversation.TherapistUserID != userID && conversation.ClientUserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not part of this conversation",
		})
	}
	return c.JSON(conversation)
}

type SendMessageInput struct {
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
}

// SendMessage appends a message to the thread between the sender and the
// recipient, creating the thread on first contact. Threads always pair a
// therapist account with a client account.
func SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	role := models.UserRole(c.Locals("role").(string))

	input := new(SendMessageInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if strings.TrimSpace(input.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message content cannot be empty",
		})
	}

	var recipient models.User
	if err := db.DB.First(&recipient, input.RecipientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipient not found",
		})
	}
	if recipient.Role == role {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversations pair a therapist with a client",
		})
	}

	therapistUserID, clientUserID := userID, recipient.ID
	if role == models.RoleClient {
		therapistUserID, clientUserID = recipient.ID, userID
	}

	var conversation models.Conversation
	err := db.DB.
		Where(models.Conversation{TherapistUserID: therapistUserID, ClientUserID: clientUserID}).
		FirstOrCreate(&conversation).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to open conversation",
			Error:   err.Error(),
		})
	}

	message := models.Message{
		ConversationID: conversation.ID,
		AuthorID:       userID,
		Content:        input.Content,
		Timestamp:      time.Now(),
	}
	if err := db.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to send message",
			Error:   err.Error(),
		})
	}

	// Bump the thread so conversation lists sort by recent activity.
	db.DB.Model(&conversation).Update("updated_at", time.Now())

	return c.Status(fiber.StatusCreated).JSON(message)
}
