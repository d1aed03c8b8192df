package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"strings"
	"time"
)

// AvailabilityService is the read-only scheduling surface: slot checks,
// slot listing and travel estimates.
type AvailabilityService struct {
	checker    *FeasibilityChecker
	enumerator *SlotEnumerator
	estimator  *Estimator
	travel     ports.TravelTimeResolver
	bookings   ports.BookingReader
}

func NewAvailabilityService(
	checker *FeasibilityChecker,
	enumerator *SlotEnumerator,
	estimator *Estimator,
	travel ports.TravelTimeResolver,
	bookings ports.BookingReader,
) *AvailabilityService {
	return &AvailabilityService{
		checker:    checker,
		enumerator: enumerator,
		estimator:  estimator,
		travel:     travel,
		bookings:   bookings,
	}
}

// ParseSlot validates caller input for a (date, time, station) request.
// Off-grid times parse fine; the grid rule rejects them later.
func (s *AvailabilityService) ParseSlot(date, tod, station string) (time.Time, domain.TimeOfDay, string, error) {
	d, err := s.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, "", err
	}

	t, err := domain.ParseTimeOfDay(tod)
	if err != nil {
		return time.Time{}, 0, "", err
	}

	st, err := parseStation(station)
	if err != nil {
		return time.Time{}, 0, "", err
	}

	return d, t, st, nil
}

func (s *AvailabilityService) ParseDate(date string) (time.Time, error) {
	return domain.ParseDate(date, s.checker.Rules().Location)
}

func parseStation(station string) (string, error) {
	st := strings.TrimSpace(station)
	if st == "" {
		return "", &domain.ValidationError{Field: "station", Msg: "must be non-empty"}
	}
	return st, nil
}

// CheckAvailability reports whether the slot can be booked right now.
// Static rules are evaluated before the bookings are read.
func (s *AvailabilityService) CheckAvailability(
	ctx context.Context,
	date, tod, station string,
) (_ Verdict, err error) {
	defer obs.Time(ctx, "availability.CheckAvailability")(&err)

	d, t, st, err := s.ParseSlot(date, tod, station)
	if err != nil {
		return Verdict{}, err
	}

	return s.check(ctx, d, t, st)
}

func (s *AvailabilityService) check(ctx context.Context, d time.Time, t domain.TimeOfDay, st string) (Verdict, error) {
	if v := s.checker.CheckRules(d, t, st); !v.Available {
		return s.checker.Check(ctx, d, t, st, nil), nil
	}

	active, err := s.bookings.ListActiveBookings(ctx, d)
	if err != nil {
		return Verdict{}, &domain.UpstreamError{Service: "booking store", Err: err}
	}

	return s.checker.Check(ctx, d, t, st, active), nil
}

// EnumerateAvailableSlots lists the open times for station on date.
func (s *AvailabilityService) EnumerateAvailableSlots(
	ctx context.Context,
	date, station string,
) (_ []domain.TimeOfDay, err error) {
	defer obs.Time(ctx, "availability.EnumerateAvailableSlots")(&err)

	d, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}
	st, err := parseStation(station)
	if err != nil {
		return nil, err
	}

	slots, err := s.enumerator.Enumerate(ctx, d, st)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "booking store", Err: err}
	}
	return slots, nil
}

// EstimateTravelMinutes answers from the geographic estimator only;
// false means one of the stations is unknown.
func (s *AvailabilityService) EstimateTravelMinutes(from, to string) (int, bool) {
	return s.estimator.Estimate(from, to)
}

// TravelTime runs the full resolution chain and always answers.
func (s *AvailabilityService) TravelTime(ctx context.Context, from, to string) domain.TravelEstimate {
	return s.travel.TravelTime(ctx, from, to)
}
