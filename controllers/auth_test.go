package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/theraplan/theraplan/models"
)

func authApp() *fiber.App {
	app := fiber.New()
	auth := app.Group("/auth")
	auth.Get("/email-verification/:token", VerifyEmail)
	auth.Post("/reset-password", ResetPassword)
	return app
}

func seedAccount(t *testing.T, testDB *gorm.DB, otp string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Original1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Email:     "maya.singh@example.com",
		Password:  string(hash),
		FirstName: "Maya",
		LastName:  "Singh",
		Role:      models.RoleTherapist,
		Verified:  true,
		Active:    true,
		OTP:       otp,
	}
	if otp != "" {
		user.OTPExpiresAt = time.Now().Add(time.Hour)
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func postReset(t *testing.T, app *fiber.App, token, password string) int {
	t.Helper()

	body, _ := json.Marshal(fiber.Map{"token": token, "password": password})
	req := httptest.NewRequest("POST", "/auth/reset-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("reset request: %v", err)
	}
	return resp.StatusCode
}

func TestResetPasswordRejectsBlankToken(t *testing.T) {
	testDB := useTestDB(t)
	app := authApp()

	// An account whose token was already consumed stores an empty OTP.
	// A blank token in the request must not match it.
	user := seedAccount(t, testDB, "")
	testDB.Model(user).Update("otp_expires_at", time.Now().Add(time.Hour))

	if status := postReset(t, app, "", "Attacker1"); status != fiber.StatusBadRequest {
		t.Fatalf("blank token reset status = %d, want %d", status, fiber.StatusBadRequest)
	}
	if status := postReset(t, app, "   ", "Attacker1"); status != fiber.StatusBadRequest {
		t.Fatalf("whitespace token reset status = %d, want %d", status, fiber.StatusBadRequest)
	}

	var stored models.User
	if err := testDB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Original1")); err != nil {
		t.Fatal("stored password changed on a rejected reset")
	}
}

func TestResetPasswordConsumesToken(t *testing.T) {
	testDB := useTestDB(t)
	app := authApp()
	user := seedAccount(t, testDB, "reset-token")

	if status := postReset(t, app, "reset-token", "Updated1a"); status != fiber.StatusOK {
		t.Fatalf("reset status = %d, want %d", status, fiber.StatusOK)
	}

	var stored models.User
	if err := testDB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Updated1a")); err != nil {
		t.Fatal("new password does not match after reset")
	}
	if stored.OTP != "" || !stored.OTPExpiresAt.IsZero() {
		t.Fatalf("token not consumed: otp=%q expires=%v", stored.OTP, stored.OTPExpiresAt)
	}

	// The consumed token is single use.
	if status := postReset(t, app, "reset-token", "Updated2b"); status != fiber.StatusBadRequest {
		t.Fatalf("replayed reset status = %d, want %d", status, fiber.StatusBadRequest)
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	testDB := useTestDB(t)
	app := authApp()

	user := seedAccount(t, testDB, "verify-token")
	testDB.Model(user).Update("verified", false)

	req := httptest.NewRequest("GET", "/auth/email-verification/verify-token", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("verify request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var stored models.User
	if err := testDB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.Verified {
		t.Fatal("account not verified")
	}
	if stored.OTP != "" || !stored.OTPExpiresAt.IsZero() {
		t.Fatalf("token not consumed: otp=%q expires=%v", stored.OTP, stored.OTPExpiresAt)
	}
}
