package models

import (
	"strings"

	"gorm.io/gorm"
)

// TherapistFilter holds the facets of a directory search. Every facet is
// optional; a zero value imposes no constraint. Facets combine with AND,
// while the values inside a multi-valued facet match ANY (a therapist
// matches the titles facet if it holds at least one of the selected
// titles).
type TherapistFilter struct {
	Name              string        `json:"name"`
	TherapyType       TherapyType   `json:"therapy_type"`
	TherapyModes      []TherapyMode `json:"therapy_modes"`
	MinDuration       int           `json:"min_duration"`
	TitleIDs          []uint        `json:"title_ids"`
	MinYearsOfExp     int           `json:"min_years_of_experience"`
	Gender            Gender        `json:"gender"`
	LanguageID        uint          `json:"language_id"`
	Country           string        `json:"country"`
	SpecialisationIDs []uint        `json:"specialisation_ids"`
	InterventionIDs   []uint        `json:"intervention_ids"`
}

// Apply extends a Therapist query with one condition per supplied facet.
// The base query restricts results to therapists whose user account is
// active and who offer at least one active appointment type; facets on
// type, mode and duration likewise only consider active appointment
// types, so a soft-deleted offering never surfaces its therapist.
func (f *TherapistFilter) Apply(db *gorm.DB) *gorm.DB {
	query := db.Model(&Therapist{}).
		Joins("JOIN users ON users.id = therapists.user_id").
		Where("users.active = ?", true).
		Where("EXISTS (SELECT 1 FROM appointment_types at WHERE at.therapist_id = therapists.id AND at.active = ?)", true)

	if f.Name != "" {
		pattern := "%" + strings.ToLower(f.Name) + "%"
		query = query.Where("LOWER(users.first_name || ' ' || users.last_name) LIKE ?", pattern)
	}

	if f.TherapyType != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM appointment_types at WHERE at.therapist_id = therapists.id AND at.active = ? AND at.therapy_type = ?)",
			true, f.TherapyType)
	}

	if len(f.TherapyModes) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM appointment_types at WHERE at.therapist_id = therapists.id AND at.active = ? AND at.therapy_mode IN ?)",
			true, f.TherapyModes)
	}

	if f.MinDuration > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM appointment_types at WHERE at.therapist_id = therapists.id AND at.active = ? AND at.duration >= ?)",
			true, f.MinDuration)
	}

	if len(f.TitleIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM therapist_titles tt WHERE tt.therapist_id = therapists.id AND tt.title_id IN ?)",
			f.TitleIDs)
	}

	if f.MinYearsOfExp > 0 {
		query = query.Where("therapists.years_of_experience >= ?", f.MinYearsOfExp)
	}

	if f.Gender != "" {
		query = query.Where("users.gender = ?", f.Gender)
	}

	if f.LanguageID != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM therapist_languages tl WHERE tl.therapist_id = therapists.id AND tl.language_id = ?)",
			f.LanguageID)
	}

	if f.Country != "" {
		query = query.Where("therapists.country = ?", f.Country)
	}

	if len(f.SpecialisationIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM therapist_issues ti WHERE ti.therapist_id = therapists.id AND ti.issue_id IN ?)",
			f.SpecialisationIDs)
	}

	if len(f.InterventionIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM therapist_interventions tn WHERE tn.therapist_id = therapists.id AND tn.intervention_id IN ?)",
			f.InterventionIDs)
	}

	return query
}

// Find runs the filter and returns the full matching set, unordered.
func (f *TherapistFilter) Find(db *gorm.DB) ([]Therapist, error) {
	var therapists []Therapist
	err := f.Apply(db).
		Preload("User").
		Preload("Titles").
		Preload("Languages").
		Preload("Specialisations").
		Preload("Interventions").
		Find(&therapists).Error
	return therapists, err
}
