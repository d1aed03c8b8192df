package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	Date            string
	Time            string
	Station         string
	CustomerName    string
	CustomerContact string
}

// BookingService is the booking creation gate. The availability check it
// runs first is advisory; the store re-checks inside its per-date critical
// section and its verdict is final.
type BookingService struct {
	availability *AvailabilityService
	checker      *FeasibilityChecker
	store        ports.BookingStore
}

func NewBookingService(availability *AvailabilityService, checker *FeasibilityChecker, store ports.BookingStore) *BookingService {
	return &BookingService{availability: availability, checker: checker, store: store}
}

func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (_ domain.BookingSlot, err error) {
	defer obs.Time(ctx, "bookings.Create")(&err)

	d, t, st, err := s.availability.ParseSlot(req.Date, req.Time, req.Station)
	if err != nil {
		return domain.BookingSlot{}, err
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return domain.BookingSlot{}, &domain.ValidationError{Field: "customer_name", Msg: "must be non-empty"}
	}

	v, err := s.availability.check(ctx, d, t, st)
	if err != nil {
		return domain.BookingSlot{}, err
	}
	if !v.Available {
		return domain.BookingSlot{}, v.Err()
	}

	guard := func(ctx context.Context, active []domain.BookingSlot) error {
		return s.checker.Check(ctx, d, t, st, active).Err()
	}

	b, err := s.store.CreateBooking(ctx, domain.NewBooking{
		Date:            d,
		TimeOfDay:       t,
		Station:         st,
		CustomerName:    name,
		CustomerContact: strings.TrimSpace(req.CustomerContact),
	}, guard)
	if err != nil {
		return domain.BookingSlot{}, storeError("create booking", err)
	}

	return b, nil
}

func (s *BookingService) Confirm(ctx context.Context, id string) (domain.BookingSlot, error) {
	return s.transition(ctx, id, domain.StatusConfirmed)
}

func (s *BookingService) Cancel(ctx context.Context, id string) (domain.BookingSlot, error) {
	return s.transition(ctx, id, domain.StatusCancelled)
}

func (s *BookingService) transition(ctx context.Context, id string, status domain.BookingStatus) (_ domain.BookingSlot, err error) {
	defer obs.Time(ctx, "bookings."+string(status))(&err)

	uid, err := parseBookingID(id)
	if err != nil {
		return domain.BookingSlot{}, err
	}

	b, err := s.store.UpdateStatus(ctx, uid, status)
	if err != nil {
		return domain.BookingSlot{}, storeError("update booking status", err)
	}
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	uid, err := parseBookingID(id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBooking(ctx, uid); err != nil {
		return storeError("delete booking", err)
	}
	return nil
}

func (s *BookingService) Get(ctx context.Context, id string) (domain.BookingSlot, error) {
	uid, err := parseBookingID(id)
	if err != nil {
		return domain.BookingSlot{}, err
	}

	b, err := s.store.GetBooking(ctx, uid)
	if err != nil {
		return domain.BookingSlot{}, storeError("get booking", err)
	}
	return b, nil
}

// List returns every booking on date, cancelled ones included.
func (s *BookingService) List(ctx context.Context, date string) ([]domain.BookingSlot, error) {
	d, err := s.availability.ParseDate(date)
	if err != nil {
		return nil, err
	}

	out, err := s.store.ListBookings(ctx, d)
	if err != nil {
		return nil, storeError("list bookings", err)
	}
	return out, nil
}

func parseBookingID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "id", Msg: "must be a UUID"}
	}
	return uid, nil
}

// storeError keeps domain outcomes as they are and marks anything else as
// an upstream failure.
func storeError(op string, err error) error {
	var rv *domain.RuleViolation
	switch {
	case errors.As(err, &rv),
		errors.Is(err, domain.ErrSlotConflict),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrInvalidTransition):
		return err
	}
	return &domain.UpstreamError{Service: "booking store", Err: fmt.Errorf("%s: %w", op, err)}
}

