package utils

import (
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theraplan/theraplan/models"
)

// ErrOutsideAvailability marks a requested slot that falls outside the
// therapist's recurring windows or inside an unavailability range.
var ErrOutsideAvailability = errors.New("requested slot is outside the therapist's availability")

type interval struct {
	start int // minutes since midnight, inclusive
	end   int // exclusive
}

// CheckBookable determines whether [start, start+duration) is bookable
// for the therapist: the slot must fit inside the recurring windows for
// that weekday, the date must not be covered by an unavailability range,
// and no appointment that still blocks its slot may overlap it. Boundary
// touches are fine, intervals are half-open.
//
// Run inside the booking transaction; on Postgres the existing
// appointments are read with a row lock so concurrent bookings for the
// same therapist serialize and the loser sees the winner's row.
//
// excludeIDs skips the given appointments in the overlap check, so a
// reschedule is not blocked by the appointment's own current slot.
func CheckBookable(tx *gorm.DB, therapistID uint, start time.Time, duration time.Duration, excludeIDs ...uint) error {
	slotStart := start.Hour()*60 + start.Minute()
	slotEnd := slotStart + int(duration.Minutes())
	if duration <= 0 || slotEnd > 24*60 {
		return ErrOutsideAvailability
	}

	// Recurring windows for the requested weekday.
	var windows []models.Availability
	err := tx.Where("therapist_id = ? AND day_of_week = ?", therapistID, int(start.Weekday())).
		Find(&windows).Error
	if err != nil {
		return err
	}
	if !containedInWindows(windows, slotStart, slotEnd) {
		return ErrOutsideAvailability
	}

	// Unavailability ranges remove the whole day.
	var unavailabilities []models.Unavailability
	if err := tx.Where("therapist_id = ?", therapistID).Find(&unavailabilities).Error; err != nil {
		return err
	}
	for i := range unavailabilities {
		if unavailabilities[i].Covers(start) {
			return ErrOutsideAvailability
		}
	}

	// Appointments on the same day that still occupy their slot.
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := tx.Preload("AppointmentType").
		Where("therapist_id = ? AND time >= ? AND time < ?", therapistID, dayStart, dayEnd).
		Where("status NOT IN ?", []models.AppointmentStatus{models.StatusCancelled, models.StatusNoShow})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "appointments"}})
	}

	var booked []models.Appointment
	if err := query.Find(&booked).Error; err != nil {
		return err
	}

	requestedEnd := start.Add(duration)
	for i := range booked {
		if booked[i].Time.Before(requestedEnd) && start.Before(booked[i].End()) {
			return models.ErrSlotUnavailable
		}
	}
	return nil
}

// containedInWindows reports whether [slotStart, slotEnd) lies fully
// inside the union of the given windows. Touching windows are merged so
// a slot spanning two adjacent windows still counts as contained.
func containedInWindows(windows []models.Availability, slotStart, slotEnd int) bool {
	if len(windows) == 0 {
		return false
	}

	intervals := make([]interval, 0, len(windows))
	for i := range windows {
		start, end, err := windows[i].Minutes()
		if err != nil {
			continue
		}
		intervals = append(intervals, interval{start: start, end: end})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	merged := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		if n := len(merged); n > 0 && iv.start <= merged[n-1].end {
			if iv.end > merged[n-1].end {
				merged[n-1].end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}

	for _, iv := range merged {
		if slotStart >= iv.start && slotEnd <= iv.end {
			return true
		}
	}
	return false
}

// bookingLocks serializes bookings per therapist within this process.
var bookingLocks sync.Map // therapist ID -> *sync.Mutex

func therapistLock(therapistID uint) *sync.Mutex {
	mu, _ := bookingLocks.LoadOrStore(therapistID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// BookSlot atomically validates and inserts a new appointment. The check
// and the insert run under a per-therapist lock and in one transaction;
// when two requests race for the same slot, exactly one insert succeeds
// and the other request gets models.ErrSlotUnavailable. On Postgres the
// therapist row lock extends the guarantee across processes.
func BookSlot(db *gorm.DB, appointment *models.Appointment, appointmentType *models.AppointmentType) error {
	duration := time.Duration(appointmentType.Duration) * time.Minute

	mu := therapistLock(appointment.TherapistID)
	mu.Lock()
	defer mu.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var therapist models.Therapist
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&therapist, appointment.TherapistID).Error
			if err != nil {
				return err
			}
		}

		if err := CheckBookable(tx, appointment.TherapistID, appointment.Time, duration); err != nil {
			return err
		}
		return tx.Create(appointment).Error
	})
}
