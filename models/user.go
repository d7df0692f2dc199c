package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient    UserRole = "client"
	RoleTherapist UserRole = "therapist"
)

type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderNonBinary      Gender = "Non-Binary"
	GenderTransmasculine Gender = "Transmasculine"
	GenderTransfeminine  Gender = "Transfeminine"
	GenderAgender        Gender = "Agender"
	GenderOther          Gender = "Other"
)

// User carries the account credentials, so Password, OTP and the OTP
// expiry never serialize: users nest inside therapist, client and
// appointment payloads, including public directory responses.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:254"`
	Password     string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         UserRole   `json:"role"`
	Verified     bool       `json:"is_verified" gorm:"default:false"`
	Active       bool       `json:"is_active" gorm:"default:true"`
	Gender       Gender     `json:"gender,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	Timezone     string     `json:"timezone,omitempty" gorm:"size:50"`
	OTP          string     `json:"-"`
	OTPExpiresAt time.Time  `json:"-"`
	Therapist    *Therapist `json:"therapist,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Client       *Client    `json:"client,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeSave normalizes the address so the unique index on email is
// effectively case-insensitive.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// FullName is used for name search and email greetings
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
