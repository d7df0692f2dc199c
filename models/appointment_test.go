package models

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func seedAppointment(t *testing.T, db *gorm.DB, status AppointmentStatus) *Appointment {
	t.Helper()

	therapist := seedTherapist(t, db, "Maya", "Singh")
	client := seedClient(t, db, "Omar", "Haddad")

	appointment := Appointment{
		TherapistID:       therapist.ID,
		ClientID:          client.ID,
		AppointmentTypeID: therapist.AppointmentTypes[0].ID,
		Time:              time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		Status:            status,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	appointment.AppointmentType = therapist.AppointmentTypes[0]
	return &appointment
}

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		actor   UserRole
		wantErr error
	}{
		{"therapist confirms scheduled", StatusScheduled, StatusConfirmed, RoleTherapist, nil},
		{"client cannot confirm", StatusScheduled, StatusConfirmed, RoleClient, ErrForbidden},
		{"cannot confirm twice", StatusConfirmed, StatusConfirmed, RoleTherapist, ErrInvalidTransition},
		{"therapist completes confirmed", StatusConfirmed, StatusCompleted, RoleTherapist, nil},
		{"client cannot complete", StatusConfirmed, StatusCompleted, RoleClient, ErrForbidden},
		{"cannot complete unconfirmed", StatusScheduled, StatusCompleted, RoleTherapist, ErrInvalidTransition},
		{"therapist marks no-show", StatusConfirmed, StatusNoShow, RoleTherapist, nil},
		{"client cannot mark no-show", StatusConfirmed, StatusNoShow, RoleClient, ErrForbidden},
		{"client cancels scheduled", StatusScheduled, StatusCancelled, RoleClient, nil},
		{"therapist cancels confirmed", StatusConfirmed, StatusCancelled, RoleTherapist, nil},
		{"completed is terminal", StatusCompleted, StatusCancelled, RoleClient, ErrInvalidTransition},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, RoleTherapist, ErrInvalidTransition},
		{"no-show is terminal", StatusNoShow, StatusCompleted, RoleTherapist, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appointment := Appointment{Status: tc.from}
			err := appointment.CanTransition(tc.actor, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CanTransition(%s, %s -> %s) = %v, want %v",
					tc.actor, tc.from, tc.to, err, tc.wantErr)
			}
		})
	}
}

func TestUpdateStatusPersistsValidTransition(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusScheduled)

	if err := appointment.UpdateStatus(db, RoleTherapist, StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	var stored Appointment
	if err := db.First(&stored, appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != StatusConfirmed {
		t.Fatalf("stored status = %s, want %s", stored.Status, StatusConfirmed)
	}
}

func TestUpdateStatusLeavesRowOnInvalidTransition(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusScheduled)

	err := appointment.UpdateStatus(db, RoleClient, StatusConfirmed)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("client confirm = %v, want ErrForbidden", err)
	}

	var stored Appointment
	if err := db.First(&stored, appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != StatusScheduled {
		t.Fatalf("stored status = %s, want untouched %s", stored.Status, StatusScheduled)
	}
}

func TestUpdateStatusRejectsStaleCopy(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusScheduled)

	var stale Appointment
	if err := db.First(&stale, appointment.ID).Error; err != nil {
		t.Fatalf("load second copy: %v", err)
	}

	if err := appointment.UpdateStatus(db, RoleClient, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The second copy still believes the appointment is Scheduled; the
	// guarded write must notice the row moved on and refuse.
	err := stale.UpdateStatus(db, RoleTherapist, StatusConfirmed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("stale confirm = %v, want ErrInvalidTransition", err)
	}
	if stale.Status != StatusScheduled {
		t.Fatalf("stale copy status = %s, want left at %s", stale.Status, StatusScheduled)
	}

	var stored Appointment
	if err := db.First(&stored, appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != StatusCancelled {
		t.Fatalf("stored status = %s, want %s", stored.Status, StatusCancelled)
	}
}

func TestRescheduleRejectsStaleCopy(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusConfirmed)

	var stale Appointment
	if err := db.First(&stale, appointment.ID).Error; err != nil {
		t.Fatalf("load second copy: %v", err)
	}

	if err := appointment.UpdateStatus(db, RoleTherapist, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	err := stale.Reschedule(db, RoleClient, stale.Time.AddDate(0, 0, 7))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("stale reschedule = %v, want ErrInvalidTransition", err)
	}

	var stored Appointment
	if err := db.First(&stored, appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Fatalf("stored status = %s, want %s", stored.Status, StatusCompleted)
	}
	if !stored.Time.Equal(appointment.Time) {
		t.Fatalf("stored time = %v, want untouched %v", stored.Time, appointment.Time)
	}
}

func TestRescheduleRestsAtScheduled(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusConfirmed)

	newTime := appointment.Time.AddDate(0, 0, 7)
	if err := appointment.Reschedule(db, RoleClient, newTime); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	var stored Appointment
	if err := db.First(&stored, appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.Time.Equal(newTime) {
		t.Fatalf("stored time = %v, want %v", stored.Time, newTime)
	}
	// A moved appointment awaits a fresh confirmation.
	if stored.Status != StatusScheduled {
		t.Fatalf("stored status = %s, want %s", stored.Status, StatusScheduled)
	}
}

func TestRescheduleTerminalAppointmentFails(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, StatusCancelled)

	err := appointment.Reschedule(db, RoleClient, appointment.Time.AddDate(0, 0, 1))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reschedule cancelled = %v, want ErrInvalidTransition", err)
	}
}

func TestBlocksSlot(t *testing.T) {
	blocking := []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCompleted, StatusRescheduled}
	for _, status := range blocking {
		a := Appointment{Status: status}
		if !a.BlocksSlot() {
			t.Errorf("%s should block its slot", status)
		}
	}

	freeing := []AppointmentStatus{StatusCancelled, StatusNoShow}
	for _, status := range freeing {
		a := Appointment{Status: status}
		if a.BlocksSlot() {
			t.Errorf("%s should free its slot", status)
		}
	}
}

func TestAppointmentEnd(t *testing.T) {
	a := Appointment{
		Time:            time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		AppointmentType: AppointmentType{Duration: 50},
	}
	want := time.Date(2026, 9, 7, 10, 50, 0, 0, time.UTC)
	if !a.End().Equal(want) {
		t.Fatalf("End() = %v, want %v", a.End(), want)
	}
}

func TestAppointmentDefaults(t *testing.T) {
	db := openTestDB(t)
	appointment := seedAppointment(t, db, "")

	if appointment.Status != StatusScheduled {
		t.Fatalf("default status = %s, want %s", appointment.Status, StatusScheduled)
	}
	if appointment.PaymentStatus != PaymentPending {
		t.Fatalf("default payment status = %s, want %s", appointment.PaymentStatus, PaymentPending)
	}
}
