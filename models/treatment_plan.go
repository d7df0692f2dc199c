package models

import (
	"time"

	"gorm.io/gorm"
)

// TreatmentPlan is a therapist-authored plan for one client. LastUpdated
// is refreshed on every mutation.
type TreatmentPlan struct {
	gorm.Model
	TherapistID              uint      `json:"therapist_id" gorm:"index"`
	Therapist                Therapist `json:"-" gorm:"foreignKey:TherapistID"`
	ClientID                 uint      `json:"client_id" gorm:"index"`
	Client                   Client    `json:"-" gorm:"foreignKey:ClientID"`
	IssuesDescription        string    `json:"issues_description"`
	InterventionsDescription string    `json:"interventions_description"`
	Goals                    string    `json:"goals"`
	Medication               string    `json:"medication"`
	ClientCanView            bool      `json:"client_can_view" gorm:"default:true"`
	LastUpdated              time.Time `json:"last_updated"`

	Issues        []Issue        `json:"issues,omitempty" gorm:"many2many:plan_issues;"`
	Interventions []Intervention `json:"interventions,omitempty" gorm:"many2many:plan_interventions;"`
}

func (p *TreatmentPlan) BeforeSave(tx *gorm.DB) error {
	p.LastUpdated = time.Now()
	return nil
}
