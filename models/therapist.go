package models

import (
	"gorm.io/gorm"
)

type Therapist struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"index"`
	User              User   `json:"user" gorm:"foreignKey:UserID"`
	Country           string `json:"country" gorm:"size:50"`
	Location          string `json:"location"`
	Link              string `json:"link"`
	Bio               string `json:"bio"`
	Affiliation       string `json:"affiliation"`
	Qualifications    string `json:"qualifications"`
	Registrations     string `json:"registrations"`
	YearsOfExperience int    `json:"years_of_experience"`
	StripeAccountID   string `json:"stripe_account_id,omitempty"`

	Titles           []Title           `json:"titles,omitempty" gorm:"many2many:therapist_titles;"`
	Languages        []Language        `json:"languages,omitempty" gorm:"many2many:therapist_languages;"`
	Specialisations  []Issue           `json:"specialisations,omitempty" gorm:"many2many:therapist_issues;"`
	Interventions    []Intervention    `json:"interventions,omitempty" gorm:"many2many:therapist_interventions;"`
	AppointmentTypes []AppointmentType `json:"appointment_types,omitempty" gorm:"foreignKey:TherapistID;constraint:OnDelete:CASCADE"`
	Availabilities   []Availability    `json:"availabilities,omitempty" gorm:"foreignKey:TherapistID;constraint:OnDelete:CASCADE"`
	Unavailabilities []Unavailability  `json:"unavailabilities,omitempty" gorm:"foreignKey:TherapistID;constraint:OnDelete:CASCADE"`
	Appointments     []Appointment     `json:"appointments,omitempty" gorm:"foreignKey:TherapistID"`
}

// ActiveAppointmentTypes filters out soft-deleted offerings
func (t *Therapist) ActiveAppointmentTypes() []AppointmentType {
	active := make([]AppointmentType, 0, len(t.AppointmentTypes))
	for _, at := range t.AppointmentTypes {
		if at.Active {
			active = append(active, at)
		}
	}
	return active
}
