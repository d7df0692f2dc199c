package controllers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theraplan/theraplan/models"
)

func TestGetTherapistHidesCredentials(t *testing.T) {
	testDB := useTestDB(t)

	user := seedAccount(t, testDB, "pending-verification-token")
	testDB.Model(user).Update("otp_expires_at", time.Now().Add(time.Hour))

	therapist := models.Therapist{UserID: user.ID, Country: "United Kingdom"}
	if err := testDB.Create(&therapist).Error; err != nil {
		t.Fatalf("seed therapist: %v", err)
	}

	app := fiber.New()
	app.Get("/therapists/:id", GetTherapist)

	req := httptest.NewRequest("GET", "/therapists/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("directory request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("directory status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(payload)

	for _, leaked := range []string{"pending-verification-token", "password", "otp"} {
		if strings.Contains(body, leaked) {
			t.Fatalf("public profile leaks %q: %s", leaked, body)
		}
	}
	if !strings.Contains(body, "maya.singh@example.com") {
		t.Fatalf("public profile dropped the user payload: %s", body)
	}
}
