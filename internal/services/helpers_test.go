package services

import (
	"context"
	"courier-slot-service/internal/config"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/ports"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testRules(t *testing.T) domain.BusinessRules {
	t.Helper()
	rules, err := config.DefaultRules()
	if err != nil {
		t.Fatalf("default rules: %v", err)
	}
	return rules
}

// fixedNow is midday on 2026-03-02 in the business timezone.
func fixedNow(rules domain.BusinessRules) func() time.Time {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, rules.Location)
	return func() time.Time { return now }
}

func mustDate(t *testing.T, rules domain.BusinessRules, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s, rules.Location)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func hm(h, m int) domain.TimeOfDay { return domain.NewTimeOfDay(h, m) }

// fixedTravel answers every pair with the same duration and records the
// ordered pairs it was asked about.
type fixedTravel struct {
	minutes int

	mu    sync.Mutex
	pairs [][2]string
}

func (f *fixedTravel) TravelTime(_ context.Context, origin, destination string) domain.TravelEstimate {
	f.mu.Lock()
	f.pairs = append(f.pairs, [2]string{origin, destination})
	f.mu.Unlock()
	return domain.TravelEstimate{Origin: origin, Destination: destination, Minutes: f.minutes, Source: domain.SourceStatic}
}

// memStore is an in-memory BookingStore that serializes creation with a
// single mutex.
type memStore struct {
	mu       sync.Mutex
	bookings []domain.BookingSlot

	listCalls atomic.Int64
	failList  error
}

func (s *memStore) add(b domain.BookingSlot) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.bookings = append(s.bookings, b)
}

func (s *memStore) active(date time.Time) []domain.BookingSlot {
	var out []domain.BookingSlot
	for _, b := range s.bookings {
		if b.Active() && domain.FormatDate(b.Date) == domain.FormatDate(date) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeOfDay < out[j].TimeOfDay })
	return out
}

func (s *memStore) ListActiveBookings(_ context.Context, date time.Time) ([]domain.BookingSlot, error) {
	s.listCalls.Add(1)
	if s.failList != nil {
		return nil, s.failList
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active(date), nil
}

func (s *memStore) ListBookings(_ context.Context, date time.Time) ([]domain.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BookingSlot
	for _, b := range s.bookings {
		if domain.FormatDate(b.Date) == domain.FormatDate(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) GetBooking(_ context.Context, id uuid.UUID) (domain.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.BookingSlot{}, domain.ErrBookingNotFound
}

func (s *memStore) CreateBooking(ctx context.Context, nb domain.NewBooking, guard ports.BookingGuard) (domain.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.active(nb.Date)
	if guard != nil {
		if err := guard(ctx, active); err != nil {
			return domain.BookingSlot{}, err
		}
	}
	for _, b := range active {
		if b.TimeOfDay == nb.TimeOfDay {
			return domain.BookingSlot{}, domain.ErrSlotConflict
		}
	}

	b := domain.BookingSlot{
		ID:              uuid.New(),
		Date:            nb.Date,
		TimeOfDay:       nb.TimeOfDay,
		Station:         nb.Station,
		CustomerName:    nb.CustomerName,
		CustomerContact: nb.CustomerContact,
		Status:          domain.StatusPending,
	}
	s.bookings = append(s.bookings, b)
	return b, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		if !s.bookings[i].Status.CanTransition(status) {
			return domain.BookingSlot{}, domain.ErrInvalidTransition
		}
		s.bookings[i].Status = status
		return s.bookings[i], nil
	}
	return domain.BookingSlot{}, domain.ErrBookingNotFound
}

func (s *memStore) DeleteBooking(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return domain.ErrBookingNotFound
}

var errStoreDown = errors.New("connection refused")
