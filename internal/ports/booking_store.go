package ports

import (
	"context"
	"courier-slot-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

// Port: read access to the day's bookings, used by feasibility and enumeration.
type BookingReader interface {
	// Return the active (pending or confirmed) bookings for date, ordered by time of day.
	ListActiveBookings(ctx context.Context, date time.Time) ([]domain.BookingSlot, error)
}

// BookingGuard decides, against a snapshot of the date's active bookings read
// inside the store's critical section, whether an insert may proceed.
type BookingGuard func(ctx context.Context, active []domain.BookingSlot) error

// Port: the authoritative booking store. CreateBooking must serialize
// check-then-insert per date and reject a second active booking at the
// same (date, time) with domain.ErrSlotConflict.
type BookingStore interface {
	BookingReader
	ListBookings(ctx context.Context, date time.Time) ([]domain.BookingSlot, error)
	GetBooking(ctx context.Context, id uuid.UUID) (domain.BookingSlot, error)
	CreateBooking(ctx context.Context, nb domain.NewBooking, guard BookingGuard) (domain.BookingSlot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingSlot, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}
