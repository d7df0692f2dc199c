package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "Scheduled"
	StatusConfirmed   AppointmentStatus = "Confirmed"
	StatusCompleted   AppointmentStatus = "Completed"
	StatusRescheduled AppointmentStatus = "Rescheduled"
	StatusCancelled   AppointmentStatus = "Cancelled"
	StatusNoShow      AppointmentStatus = "No Show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

type Appointment struct {
	gorm.Model
	TherapistID       uint              `json:"therapist_id" gorm:"index"`
	Therapist         Therapist         `json:"therapist" gorm:"foreignKey:TherapistID"`
	ClientID          uint              `json:"client_id" gorm:"index"`
	Client            Client            `json:"client" gorm:"foreignKey:ClientID"`
	AppointmentTypeID uint              `json:"appointment_type_id" gorm:"index"`
	AppointmentType   AppointmentType   `json:"appointment_type" gorm:"foreignKey:AppointmentTypeID"`
	Time              time.Time         `json:"time"`
	Status            AppointmentStatus `json:"appointment_status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	Notes             *AppointmentNote  `json:"notes,omitempty" gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	Exercise          *TherapyExercise  `json:"exercise,omitempty" gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
	return nil
}

// IsTerminal reports whether no further status transitions are allowed.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// End returns the exclusive end of the appointment's slot, derived from
// the booked appointment type's duration.
func (a *Appointment) End() time.Time {
	return a.Time.Add(time.Duration(a.AppointmentType.Duration) * time.Minute)
}

// BlocksSlot reports whether the appointment still occupies its time slot.
// Cancelled and missed appointments free the slot for rebooking.
func (a *Appointment) BlocksSlot() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// CanTransition checks whether the given actor may move the appointment
// from its current status to newStatus. It mutates nothing.
func (a *Appointment) CanTransition(actor UserRole, newStatus AppointmentStatus) error {
	if a.IsTerminal() {
		return ErrInvalidTransition
	}

	switch newStatus {
	case StatusConfirmed:
		if actor != RoleTherapist {
			return ErrForbidden
		}
		if a.Status != StatusScheduled {
			return ErrInvalidTransition
		}
	case StatusCompleted:
		if actor != RoleTherapist {
			return ErrForbidden
		}
		if a.Status != StatusConfirmed {
			return ErrInvalidTransition
		}
	case StatusNoShow:
		if actor != RoleTherapist {
			return ErrForbidden
		}
	case StatusRescheduled, StatusCancelled:
		// Allowed for both roles from Scheduled or Confirmed.
	default:
		return ErrInvalidTransition
	}
	return nil
}

// UpdateStatus validates and applies a status transition on behalf of the
// given actor. The check and the write happen atomically: the UPDATE is
// conditional on the status the check ran against, so a concurrent
// transition that got there first makes this one fail instead of
// overwriting it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, actor UserRole, newStatus AppointmentStatus) error {
	if err := a.CanTransition(actor, newStatus); err != nil {
		return err
	}

	prior := a.Status
	result := tx.Model(a).Where("status = ?", prior).Update("status", newStatus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		a.Status = prior
		return ErrInvalidTransition
	}
	a.Status = newStatus
	return nil
}

// Reschedule moves the appointment to newTime. Rescheduled is recorded
// only transiently: the row's time is updated and the appointment rests
// at Scheduled again, awaiting a fresh confirmation by the therapist.
// Slot validity must be checked by the caller before invoking this.
func (a *Appointment) Reschedule(tx *gorm.DB, actor UserRole, newTime time.Time) error {
	if err := a.CanTransition(actor, StatusRescheduled); err != nil {
		return err
	}

	prior := a.Status
	priorTime := a.Time
	result := tx.Model(a).Where("status = ?", prior).Updates(map[string]interface{}{
		"time":   newTime,
		"status": StatusScheduled,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		a.Status = prior
		a.Time = priorTime
		return ErrInvalidTransition
	}
	a.Time = newTime
	a.Status = StatusScheduled
	return nil
}
