package models

import (
	"time"

	"gorm.io/gorm"
)

// AppointmentNote holds a therapist's private session notes. Clients
// never see these.
type AppointmentNote struct {
	gorm.Model
	AppointmentID uint           `json:"appointment_id" gorm:"index"`
	Text          string         `json:"text"`
	Efficacy      int            `json:"efficacy"` // 1-5 rating of session effectiveness
	LastUpdated   time.Time      `json:"last_updated"`
	Issues        []Issue        `json:"issues,omitempty" gorm:"many2many:note_issues;"`
	Interventions []Intervention `json:"interventions,omitempty" gorm:"many2many:note_interventions;"`
}

// TherapyExercise is homework attached to an appointment. The therapist
// sets title and description, the client fills in the response.
type TherapyExercise struct {
	gorm.Model
	AppointmentID  uint   `json:"appointment_id" gorm:"index"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ClientResponse string `json:"client_response"`
	Completed      bool   `json:"completed" gorm:"default:false"`
}
