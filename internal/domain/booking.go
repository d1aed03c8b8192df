package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus validates a status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", &ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", s)}
	}
}

// Active bookings occupy courier time; cancelled ones do not.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// Pending may be confirmed or cancelled, confirmed may only be cancelled,
// cancelled is terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// BookingSlot is a single courier stop booked by a customer.
type BookingSlot struct {
	ID              uuid.UUID
	Date            time.Time
	TimeOfDay       TimeOfDay
	Station         string
	CustomerName    string
	CustomerContact string
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *BookingSlot) Active() bool { return b.Status.Active() }

// NewBooking carries the fields a customer supplies when requesting a slot.
type NewBooking struct {
	Date            time.Time
	TimeOfDay       TimeOfDay
	Station         string
	CustomerName    string
	CustomerContact string
}
