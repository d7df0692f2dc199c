package models

import (
	"time"

	"gorm.io/gorm"
)

type Client struct {
	gorm.Model
	UserID                uint      `json:"user_id" gorm:"index"`
	User                  User      `json:"user" gorm:"foreignKey:UserID"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Occupation            string    `json:"occupation" gorm:"size:50"`
	Address               string    `json:"address"`
	Phone                 string    `json:"phone" gorm:"size:20"`
	EmergencyContactName  string    `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyContactPhone string    `json:"emergency_contact_phone" gorm:"size:20"`
	ReferralSource        string    `json:"referral_source" gorm:"size:100"`

	Issues       []Issue       `json:"issues,omitempty" gorm:"many2many:client_issues;"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:ClientID"`
}
