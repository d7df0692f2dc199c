package models

import "errors"

// Domain errors surfaced by model methods. Controllers map these onto
// HTTP statuses; anything else is treated as an internal failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("invalid appointment status transition")
	ErrSlotUnavailable   = errors.New("requested time slot is not available")
)
