package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theraplan/theraplan/models"
)

var titleNames = []string{"Therapist", "Psychologist", "Coach"}

var interventionNames = []string{
	"Acceptance and commitment therapy (ACT)",
	"Art therapy",
	"Cognitive behaviour therapy (CBT)",
	"Dialectical behaviour therapy (DBT)",
	"Emotion-focused therapy (EFT)",
	"Eye movement desensitisation and reprocessing (EMDR)",
	"Existential therapy",
	"Gestalt Therapy",
	"Hypnotherapy",
	"Integrative psychotherapy",
	"Interpersonal psychotherapy (IPT)",
	"Logotherapy",
	"Mindfulness-based cognitive therapy (MBCT)",
	"Mindfulness-based stress reduction (MBSR)",
	"Motivational Interviewing (MI)",
	"Music therapy",
	"Narrative therapy",
	"Neuro-linguistic programming (NLP)",
	"Person-Centered Therapy",
	"Play therapy",
	"Positive psychology",
	"Psychodynamic psychotherapy (PDT)",
	"Psychoeducation",
	"Rational emotive behavior therapy (REBT)",
	"Schema therapy",
	"Solution-focused brief therapy (SFBT)",
	"Systemic therapy",
	"Transpersonal psychology",
	"Transactional Analysis",
}

var issueNames = []string{
	"Anxiety",
	"Depression",
	"Stress",
	"Trauma and PTSD",
	"Grief and loss",
	"Relationship difficulties",
	"Self-esteem",
	"Addiction",
	"Eating disorders",
	"Sleep problems",
	"Anger management",
	"Burnout",
	"OCD",
	"Phobias",
	"Life transitions",
}

var languageSeed = []models.Language{
	{Name: "English", Alpha2: "en", Alpha3: "eng"},
	{Name: "Spanish", Alpha2: "es", Alpha3: "spa"},
	{Name: "French", Alpha2: "fr", Alpha3: "fra"},
	{Name: "German", Alpha2: "de", Alpha3: "deu"},
	{Name: "Italian", Alpha2: "it", Alpha3: "ita"},
	{Name: "Portuguese", Alpha2: "pt", Alpha3: "por"},
	{Name: "Dutch", Alpha2: "nl", Alpha3: "nld"},
	{Name: "Polish", Alpha2: "pl", Alpha3: "pol"},
	{Name: "Russian", Alpha2: "ru", Alpha3: "rus"},
	{Name: "Arabic", Alpha2: "ar", Alpha3: "ara"},
	{Name: "Hindi", Alpha2: "hi", Alpha3: "hin"},
	{Name: "Mandarin Chinese", Alpha2: "zh", Alpha3: "zho"},
	{Name: "Japanese", Alpha2: "ja", Alpha3: "jpn"},
	{Name: "Korean", Alpha2: "ko", Alpha3: "kor"},
	{Name: "Turkish", Alpha2: "tr", Alpha3: "tur"},
	{Name: "Greek", Alpha2: "el", Alpha3: "ell"},
	{Name: "Swedish", Alpha2: "sv", Alpha3: "swe"},
	{Name: "Urdu", Alpha2: "ur", Alpha3: "urd"},
}

// SeedLookups inserts the reference rows the directory facets depend on.
// Inserts are idempotent: existing names are left alone.
func SeedLookups(db *gorm.DB) error {
	onConflict := clause.OnConflict{DoNothing: true}

	for _, name := range titleNames {
		if err := db.Clauses(onConflict).Create(&models.Title{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range interventionNames {
		if err := db.Clauses(onConflict).Create(&models.Intervention{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range issueNames {
		if err := db.Clauses(onConflict).Create(&models.Issue{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, language := range languageSeed {
		if err := db.Clauses(onConflict).Create(&language).Error; err != nil {
			return err
		}
	}
	return nil
}
