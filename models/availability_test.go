package models

import (
	"errors"
	"testing"
	"time"
)

func TestClockMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:3", 0, true},
		{"banana", 0, true},
	}
	for _, tc := range cases {
		got, err := ClockMinutes(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ClockMinutes(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockMinutes(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClockMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestWindowMinutesRejectsInvertedWindow(t *testing.T) {
	window := Availability{StartTime: "12:00", EndTime: "09:00"}
	if _, _, err := window.Minutes(); err == nil {
		t.Fatal("inverted window must be rejected")
	}
}

func TestOverlaps(t *testing.T) {
	base := Availability{DayOfWeek: Monday, StartTime: "09:00", EndTime: "12:00"}

	cases := []struct {
		name  string
		other Availability
		want  bool
	}{
		{"inside", Availability{DayOfWeek: Monday, StartTime: "10:00", EndTime: "11:00"}, true},
		{"straddles start", Availability{DayOfWeek: Monday, StartTime: "08:00", EndTime: "09:30"}, true},
		{"touching end does not overlap", Availability{DayOfWeek: Monday, StartTime: "12:00", EndTime: "14:00"}, false},
		{"touching start does not overlap", Availability{DayOfWeek: Monday, StartTime: "08:00", EndTime: "09:00"}, false},
		{"different weekday", Availability{DayOfWeek: Tuesday, StartTime: "10:00", EndTime: "11:00"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := base.Overlaps(&tc.other)
			if err != nil {
				t.Fatalf("Overlaps: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCreateRejectsOverlappingWindow(t *testing.T) {
	db := openTestDB(t)
	therapist := seedTherapist(t, db, "Maya", "Singh")

	first := Availability{TherapistID: therapist.ID, DayOfWeek: Monday, StartTime: "09:00", EndTime: "12:00"}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first window: %v", err)
	}

	overlapping := Availability{TherapistID: therapist.ID, DayOfWeek: Monday, StartTime: "11:00", EndTime: "14:00"}
	err := db.Create(&overlapping).Error
	if !errors.Is(err, ErrOverlappingWindow) {
		t.Fatalf("overlapping create = %v, want ErrOverlappingWindow", err)
	}

	// Same hours on another weekday are fine.
	tuesday := Availability{TherapistID: therapist.ID, DayOfWeek: Tuesday, StartTime: "11:00", EndTime: "14:00"}
	if err := db.Create(&tuesday).Error; err != nil {
		t.Fatalf("create tuesday window: %v", err)
	}

	// Adjacent window touching the boundary is fine.
	adjacent := Availability{TherapistID: therapist.ID, DayOfWeek: Monday, StartTime: "12:00", EndTime: "14:00"}
	if err := db.Create(&adjacent).Error; err != nil {
		t.Fatalf("create adjacent window: %v", err)
	}
}

func TestUnavailabilityCovers(t *testing.T) {
	span := Unavailability{
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"day before", time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC), false},
		{"first day", time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), true},
		{"middle with time of day", time.Date(2026, 9, 9, 15, 30, 0, 0, time.UTC), true},
		{"last day inclusive", time.Date(2026, 9, 11, 23, 59, 0, 0, time.UTC), true},
		{"day after", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := span.Covers(tc.date); got != tc.want {
				t.Fatalf("Covers(%v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}
