package common

import (
	"errors"
	"fmt"
)

// Booking error taxonomy. Every failure leaves zero side effects (the whole
// unit of work rolls back), so callers can safely retry the full operation.
var (
	ErrEmptyItemList   = errors.New("at least one item is required")
	ErrSlotUnavailable = errors.New("this time slot is no longer available")
	ErrSlotRequired    = errors.New("a pickup time slot is required for this service")
	ErrSlotNotFound    = errors.New("time slot not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrSubtypeNotFound = errors.New("service subtype not found")
	ErrAlreadyTerminal = errors.New("booking is already completed or cancelled")
)

// NoActivePricingError means a requested subtype has no active price entry.
type NoActivePricingError struct {
	Subtype string
}

func (e *NoActivePricingError) Error() string {
	return fmt.Sprintf("no active pricing for %s", e.Subtype)
}

// NoticeTooShortError carries the required notice window so the caller can
// display it.
type NoticeTooShortError struct {
	Action string
	Hours  int
}

func (e *NoticeTooShortError) Error() string {
	return fmt.Sprintf("%s requires at least %d hours notice", e.Action, e.Hours)
}
