package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// ErrOverlappingWindow is returned when a new availability window would
// overlap an existing one for the same therapist and weekday.
var ErrOverlappingWindow = errors.New("availability window overlaps an existing window")

// Availability is a recurring weekly window during which a therapist
// accepts bookings. Times are "HH:MM" in 24h format, window end exclusive.
type Availability struct {
	gorm.Model
	TherapistID uint      `json:"therapist_id" gorm:"index"`
	DayOfWeek   DayOfWeek `json:"day_of_week"`
	StartTime   string    `json:"start_time"` // "HH:MM"
	EndTime     string    `json:"end_time"`   // "HH:MM"
}

// ClockMinutes parses an "HH:MM" clock value into minutes since midnight.
func ClockMinutes(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Minutes returns the window as [start, end) minutes since midnight.
func (av *Availability) Minutes() (start, end int, err error) {
	start, err = ClockMinutes(av.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ClockMinutes(av.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("window end %s must be after start %s", av.EndTime, av.StartTime)
	}
	return start, end, nil
}

// Overlaps reports whether two windows on the same weekday intersect.
// Touching boundaries do not count as overlap.
func (av *Availability) Overlaps(other *Availability) (bool, error) {
	if av.DayOfWeek != other.DayOfWeek {
		return false, nil
	}
	aStart, aEnd, err := av.Minutes()
	if err != nil {
		return false, err
	}
	bStart, bEnd, err := other.Minutes()
	if err != nil {
		return false, err
	}
	return aStart < bEnd && bStart < aEnd, nil
}

// BeforeCreate rejects windows that overlap an existing window for the
// same therapist and weekday.
func (av *Availability) BeforeCreate(tx *gorm.DB) error {
	if _, _, err := av.Minutes(); err != nil {
		return err
	}

	var existing []Availability
	err := tx.Where("therapist_id = ? AND day_of_week = ?", av.TherapistID, av.DayOfWeek).
		Find(&existing).Error
	if err != nil {
		return err
	}
	for i := range existing {
		overlaps, err := av.Overlaps(&existing[i])
		if err != nil {
			return err
		}
		if overlaps {
			return ErrOverlappingWindow
		}
	}
	return nil
}

// Unavailability is an explicit date-range exception (vacation, leave)
// overriding the recurring windows for its whole span.
type Unavailability struct {
	gorm.Model
	TherapistID uint      `json:"therapist_id" gorm:"index"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Reason      string    `json:"reason,omitempty"`
}

// Covers reports whether the given date falls inside the range, both
// bounds inclusive at day granularity.
func (u *Unavailability) Covers(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(u.StartDate.Year(), u.StartDate.Month(), u.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(u.EndDate.Year(), u.EndDate.Month(), u.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
