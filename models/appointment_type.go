package models

import (
	"fmt"

	"gorm.io/gorm"
)

type TherapyType string

const (
	TherapyIndividual    TherapyType = "Individual"
	TherapyCouples       TherapyType = "Couples"
	TherapyFamily        TherapyType = "Family"
	TherapyPsychometrics TherapyType = "Psychometrics"
)

type TherapyMode string

const (
	ModeInPerson TherapyMode = "In Person"
	ModeAudio    TherapyMode = "Audio Call"
	ModeVideo    TherapyMode = "Video Call"
)

// AppointmentType is a bookable offering defined by a therapist. Rows are
// append-only: once an appointment references a row, the row is never
// mutated. Edits deactivate the old row and insert a fresh one so that
// historical appointments keep their original duration and fee.
type AppointmentType struct {
	gorm.Model
	TherapistID uint        `json:"therapist_id" gorm:"index"`
	Therapist   Therapist   `json:"-" gorm:"foreignKey:TherapistID"`
	Name        string      `json:"name"`
	TherapyType TherapyType `json:"therapy_type"`
	TherapyMode TherapyMode `json:"therapy_mode"`
	Duration    int         `json:"duration"` // minutes
	FeeAmount   float64     `json:"fee_amount"`
	FeeCurrency string      `json:"fee_currency" gorm:"size:3"` // ISO 4217
	Active      bool        `json:"active" gorm:"default:true"`
}

func (at *AppointmentType) BeforeCreate(tx *gorm.DB) error {
	if at.Duration <= 0 {
		return fmt.Errorf("appointment type duration must be positive, got %d", at.Duration)
	}
	return nil
}

// Replace deactivates this row and inserts a new active version carrying
// the given values. The returned row has a fresh ID; appointments booked
// against the old version keep pointing at it.
func (at *AppointmentType) Replace(tx *gorm.DB, updated AppointmentType) (*AppointmentType, error) {
	if !at.Active {
		return nil, fmt.Errorf("appointment type %d is already inactive", at.ID)
	}

	err := tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(at).Update("active", false).Error; err != nil {
			return err
		}

		updated.ID = 0
		updated.TherapistID = at.TherapistID
		updated.Active = true
		return tx.Create(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	at.Active = false
	return &updated, nil
}

// Deactivate soft-deletes the offering so it no longer surfaces in the
// directory or booking forms. Existing appointments are untouched.
func (at *AppointmentType) Deactivate(tx *gorm.DB) error {
	if err := tx.Model(at).Update("active", false).Error; err != nil {
		return err
	}
	at.Active = false
	return nil
}
