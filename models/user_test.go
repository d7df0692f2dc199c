package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONHidesCredentials(t *testing.T) {
	user := User{
		ID:           1,
		Email:        "maya.singh@example.com",
		Password:     "bcrypt-hash-value",
		FirstName:    "Maya",
		LastName:     "Singh",
		Role:         RoleTherapist,
		OTP:          "one-time-token-value",
		OTPExpiresAt: time.Now().Add(time.Hour),
	}

	payload, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)

	for _, leaked := range []string{"bcrypt-hash-value", "one-time-token-value", "password", "otp"} {
		if strings.Contains(body, leaked) {
			t.Fatalf("serialized user leaks %q: %s", leaked, body)
		}
	}
	if !strings.Contains(body, "maya.singh@example.com") {
		t.Fatalf("serialized user dropped public fields: %s", body)
	}
}

func TestUserNestedInTherapistHidesCredentials(t *testing.T) {
	therapist := Therapist{
		UserID: 1,
		User: User{
			ID:       1,
			Email:    "maya.singh@example.com",
			Password: "bcrypt-hash-value",
			OTP:      "one-time-token-value",
		},
	}

	payload, err := json.Marshal(therapist)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)
	if strings.Contains(body, "bcrypt-hash-value") || strings.Contains(body, "one-time-token-value") {
		t.Fatalf("nested user leaks credentials: %s", body)
	}
}

func TestUserEmailNormalizedOnSave(t *testing.T) {
	db := openTestDB(t)

	user := User{
		Email:     "  Maya.Singh@Example.COM ",
		Password:  "irrelevant",
		FirstName: "Maya",
		LastName:  "Singh",
		Role:      RoleTherapist,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var stored User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Email != "maya.singh@example.com" {
		t.Fatalf("stored email = %q, want normalized lowercase", stored.Email)
	}

	// A differently-cased duplicate hits the unique index.
	duplicate := User{
		Email:     "MAYA.SINGH@example.com",
		Password:  "irrelevant",
		FirstName: "Maya",
		LastName:  "Singh",
		Role:      RoleClient,
	}
	if err := db.Create(&duplicate).Error; err == nil {
		t.Fatal("differently-cased duplicate email must be rejected")
	}
}
