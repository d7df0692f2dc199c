package controllers

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/theraplan/theraplan/db"
	"github.com/theraplan/theraplan/models"
	"github.com/theraplan/theraplan/utils"
)

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Register creates a new user account and sends a verification email.
func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	errors := map[string]string{}
	if strings.TrimSpace(input.FirstName) == "" {
		errors["first_name"] = "First name is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		errors["last_name"] = "Last name is required"
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		errors["email"] = "Email is required"
	} else {
		var existing models.User
		if db.DB.Where("email = ?", email).First(&existing).RowsAffected > 0 {
			errors["email"] = "Email address is already in use"
		}
	}

	if !utils.IsValidPassword(input.Password) {
		errors["password"] = "Password must be at least 8 characters with a digit, an uppercase and a lowercase letter"
	}

	role := models.UserRole(input.Role)
	if role != models.RoleClient && role != models.RoleTherapist {
		errors["role"] = "Role must be either client or therapist"
	}

	if len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(errors))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Email:        email,
		Password:     string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		Active:       true,
		OTP:          utils.GenerateToken(),
		OTPExpiresAt: time.Now().Add(5 * 24 * time.Hour),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	utils.SendTokenEmail(&user, utils.SubjectEmailVerification, user.OTP)

	return c.Status(fiber.StatusCreated).JSON(user)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and issues access and refresh tokens.
func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.Active {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "This account has been deactivated",
		})
	}

	if !user.Verified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Please verify your email address before logging in",
		})
	}

	tokenString, err := signToken(jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	refreshTokenString, err := signToken(jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate refresh token",
		})
	}

	return c.JSON(fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
	})
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	refreshRequest := new(RefreshRequest)
	if err := c.BodyParser(refreshRequest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}

	claims := token.Claims.(jwt.MapClaims)
	tokenString, err := signToken(jwt.MapClaims{
		"id":   claims["id"],
		"role": claims["role"],
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": tokenString,
	})
}

// Me returns the current user's account with their role profile loaded.
func Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	err := db.DB.Preload("Therapist").Preload("Client").First(&user, userID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user)
}

// Logout doesn't invalidate the token as JWTs are stateless.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// VerifyEmail marks the account matching the emailed token as verified.
func VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	// Accounts whose token was already consumed store an empty OTP; a
	// blank token must never match them.
	if strings.TrimSpace(token) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired verification link",
		})
	}

	var user models.User
	if db.DB.Where("otp = ?", token).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired verification link",
		})
	}
	if time.Now().After(user.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired verification link",
		})
	}

	err := db.DB.Model(&user).Updates(map[string]interface{}{
		"verified":       true,
		"otp":            "",
		"otp_expires_at": time.Time{},
	}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Email address verified",
	})
}

// RequestPasswordReset sends a password reset link to the given address.
// The response is the same whether or not the account exists.
func RequestPasswordReset(c *fiber.Ctx) error {
	type ResetRequest struct {
		Email string `json:"email"`
	}

	input := new(ResetRequest)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected > 0 {
		token := utils.GenerateToken()
		db.DB.Model(&user).Updates(map[string]interface{}{
			"otp":            token,
			"otp_expires_at": time.Now().Add(24 * time.Hour),
		})
		utils.SendTokenEmail(&user, utils.SubjectPasswordReset, token)
	}

	return c.JSON(fiber.Map{
		"message": "If an account exists for this address, reset instructions have been sent",
	})
}

// ResetPassword sets a new password for the account matching the token.
func ResetPassword(c *fiber.Ctx) error {
	type ResetInput struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	input := new(ResetInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !utils.IsValidPassword(input.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewValidationErrors(map[string]string{
			"password": "Password must be at least 8 characters with a digit, an uppercase and a lowercase letter",
		}))
	}

	// A blank token would match any account whose OTP was already
	// consumed.
	if strings.TrimSpace(input.Token) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired reset link",
		})
	}

	var user models.User
	if db.DB.Where("otp = ?", input.Token).First(&user).RowsAffected == 0 ||
		time.Now().After(user.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired reset link",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	err = db.DB.Model(&user).Updates(map[string]interface{}{
		"password":       string(hashedPassword),
		"otp":            "",
		"otp_expires_at": time.Time{},
	}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password has been reset",
	})
}

func signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret()))
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}
