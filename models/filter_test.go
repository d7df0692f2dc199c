package models

import (
	"testing"

	"gorm.io/gorm"
)

// filterFixture seeds a small directory with three therapists whose
// attributes differ along every facet.
type filterFixture struct {
	db      *gorm.DB
	maya    *Therapist // CBT in English, 10y, Individual video sessions
	omar    *Therapist // EMDR in Arabic, 3y, Couples in-person sessions
	pauline *Therapist // retired: only inactive offerings
}

func newFilterFixture(t *testing.T) *filterFixture {
	t.Helper()
	db := openTestDB(t)

	english := Language{Name: "English", Alpha2: "en"}
	arabic := Language{Name: "Arabic", Alpha2: "ar"}
	anxiety := Issue{Name: "Anxiety"}
	trauma := Issue{Name: "Trauma"}
	cbt := Intervention{Name: "Cognitive Behavioural Therapy (CBT)"}
	emdr := Intervention{Name: "EMDR"}
	psychologist := Title{Name: "Psychologist"}
	coach := Title{Name: "Coach"}
	for _, row := range []interface{}{&english, &arabic, &anxiety, &trauma, &cbt, &emdr, &psychologist, &coach} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed lookup: %v", err)
		}
	}

	maya := seedTherapist(t, db, "Maya", "Singh")
	if err := db.Model(maya).Updates(map[string]interface{}{
		"years_of_experience": 10,
		"country":             "United Kingdom",
	}).Error; err != nil {
		t.Fatalf("update maya: %v", err)
	}
	db.Model(&maya.User).Update("gender", GenderFemale)
	mustAssociate(t, db, maya, "Languages", &english)
	mustAssociate(t, db, maya, "Specialisations", &anxiety)
	mustAssociate(t, db, maya, "Interventions", &cbt)
	mustAssociate(t, db, maya, "Titles", &psychologist)

	omar := seedTherapist(t, db, "Omar", "Haddad")
	if err := db.Model(omar).Updates(map[string]interface{}{
		"years_of_experience": 3,
		"country":             "Jordan",
	}).Error; err != nil {
		t.Fatalf("update omar: %v", err)
	}
	db.Model(&omar.User).Update("gender", GenderMale)
	mustAssociate(t, db, omar, "Languages", &arabic)
	mustAssociate(t, db, omar, "Specialisations", &trauma)
	mustAssociate(t, db, omar, "Interventions", &emdr)
	mustAssociate(t, db, omar, "Titles", &coach)
	// Omar offers couples sessions in person, 90 minutes.
	couples := AppointmentType{
		TherapistID: omar.ID,
		Name:        "Couples Session",
		TherapyType: TherapyCouples,
		TherapyMode: ModeInPerson,
		Duration:    90,
		FeeAmount:   110,
		FeeCurrency: "JOD",
		Active:      true,
	}
	if err := db.Create(&couples).Error; err != nil {
		t.Fatalf("seed couples offering: %v", err)
	}
	// His default individual offering is retired.
	if err := db.Model(&AppointmentType{}).
		Where("id = ?", omar.AppointmentTypes[0].ID).
		Update("active", false).Error; err != nil {
		t.Fatalf("retire omar offering: %v", err)
	}

	pauline := seedTherapist(t, db, "Pauline", "Dubois")
	if err := db.Model(&AppointmentType{}).
		Where("therapist_id = ?", pauline.ID).
		Update("active", false).Error; err != nil {
		t.Fatalf("retire pauline offerings: %v", err)
	}

	return &filterFixture{db: db, maya: maya, omar: omar, pauline: pauline}
}

func mustAssociate(t *testing.T, db *gorm.DB, therapist *Therapist, association string, value interface{}) {
	t.Helper()
	if err := db.Model(therapist).Association(association).Append(value); err != nil {
		t.Fatalf("associate %s: %v", association, err)
	}
}

func (f *filterFixture) run(t *testing.T, filter TherapistFilter) []uint {
	t.Helper()
	therapists, err := filter.Find(f.db)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	ids := make([]uint, 0, len(therapists))
	for i := range therapists {
		ids = append(ids, therapists[i].ID)
	}
	return ids
}

func assertIDs(t *testing.T, got []uint, want ...uint) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d therapists %v, want %v", len(got), got, want)
	}
	for _, id := range want {
		found := false
		for _, g := range got {
			if g == id {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing therapist %d in %v", id, got)
		}
	}
}

func TestFilterEmptyReturnsAllBookable(t *testing.T) {
	f := newFilterFixture(t)
	// Pauline has no active offering, so she never surfaces.
	assertIDs(t, f.run(t, TherapistFilter{}), f.maya.ID, f.omar.ID)
}

func TestFilterByName(t *testing.T) {
	f := newFilterFixture(t)
	assertIDs(t, f.run(t, TherapistFilter{Name: "maya"}), f.maya.ID)
	assertIDs(t, f.run(t, TherapistFilter{Name: "HADDAD"}), f.omar.ID)
	assertIDs(t, f.run(t, TherapistFilter{Name: "singh x"}))
}

func TestFilterByTherapyType(t *testing.T) {
	f := newFilterFixture(t)
	assertIDs(t, f.run(t, TherapistFilter{TherapyType: TherapyCouples}), f.omar.ID)
	// Omar's individual offering is retired, only Maya's counts.
	assertIDs(t, f.run(t, TherapistFilter{TherapyType: TherapyIndividual}), f.maya.ID)
}

func TestFilterByModeMatchesAny(t *testing.T) {
	f := newFilterFixture(t)
	got := f.run(t, TherapistFilter{TherapyModes: []TherapyMode{ModeVideo, ModeInPerson}})
	assertIDs(t, got, f.maya.ID, f.omar.ID)

	assertIDs(t, f.run(t, TherapistFilter{TherapyModes: []TherapyMode{ModeAudio}}))
}

func TestFilterByMinDuration(t *testing.T) {
	f := newFilterFixture(t)
	assertIDs(t, f.run(t, TherapistFilter{MinDuration: 90}), f.omar.ID)
	assertIDs(t, f.run(t, TherapistFilter{MinDuration: 60}), f.maya.ID, f.omar.ID)
}

func TestFilterByExperienceGenderCountry(t *testing.T) {
	f := newFilterFixture(t)
	assertIDs(t, f.run(t, TherapistFilter{MinYearsOfExp: 5}), f.maya.ID)
	assertIDs(t, f.run(t, TherapistFilter{Gender: GenderMale}), f.omar.ID)
	assertIDs(t, f.run(t, TherapistFilter{Country: "Jordan"}), f.omar.ID)
}

func TestFilterByAssociations(t *testing.T) {
	f := newFilterFixture(t)

	var english Language
	f.db.Where("name = ?", "English").First(&english)
	assertIDs(t, f.run(t, TherapistFilter{LanguageID: english.ID}), f.maya.ID)

	var trauma Issue
	f.db.Where("name = ?", "Trauma").First(&trauma)
	assertIDs(t, f.run(t, TherapistFilter{SpecialisationIDs: []uint{trauma.ID}}), f.omar.ID)

	var cbt, emdr Intervention
	f.db.Where("name LIKE ?", "%CBT%").First(&cbt)
	f.db.Where("name = ?", "EMDR").First(&emdr)
	// ANY semantics inside the facet.
	assertIDs(t, f.run(t, TherapistFilter{InterventionIDs: []uint{cbt.ID, emdr.ID}}), f.maya.ID, f.omar.ID)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	f := newFilterFixture(t)

	var cbt, emdr Intervention
	f.db.Where("name LIKE ?", "%CBT%").First(&cbt)
	f.db.Where("name = ?", "EMDR").First(&emdr)

	// Intervention facet matches both, experience facet narrows to Maya.
	got := f.run(t, TherapistFilter{
		InterventionIDs: []uint{cbt.ID, emdr.ID},
		MinYearsOfExp:   5,
	})
	assertIDs(t, got, f.maya.ID)

	// Contradictory facets match nobody.
	assertIDs(t, f.run(t, TherapistFilter{
		Country:       "Jordan",
		MinYearsOfExp: 5,
	}))
}

func TestFilterExcludesInactiveAccounts(t *testing.T) {
	f := newFilterFixture(t)
	if err := f.db.Model(&User{}).Where("id = ?", f.maya.UserID).
		Update("active", false).Error; err != nil {
		t.Fatalf("deactivate maya: %v", err)
	}
	assertIDs(t, f.run(t, TherapistFilter{}), f.omar.ID)
}
