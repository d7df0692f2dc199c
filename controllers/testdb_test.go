package controllers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theraplan/theraplan/db"
)

// useTestDB points the package-level connection at an in-memory
// database for the duration of the test.
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	previous := db.DB
	db.DB = testDB
	t.Cleanup(func() { db.DB = previous })

	db.Migrate()
	return testDB
}
