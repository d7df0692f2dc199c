package models

// Reference tables for therapist directory facets. Rows are seeded at
// migration time and carry no lifecycle of their own.

type Title struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;size:50"`
}

type Language struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"unique;size:50"`
	Alpha2 string `json:"alpha_2,omitempty" gorm:"size:2"` // ISO 639-1
	Alpha3 string `json:"alpha_3,omitempty" gorm:"size:3"` // ISO 639-2
}

type Issue struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;size:50"`
}

type Intervention struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;size:50"`
}
