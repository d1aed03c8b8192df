package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"errors"
	"testing"
)

func newTestAvailability(t *testing.T, store *memStore, travelMinutes int) *AvailabilityService {
	t.Helper()
	rules := testRules(t)
	checker := NewFeasibilityChecker(rules, &fixedTravel{minutes: travelMinutes}, fixedNow(rules))
	enum := NewSlotEnumerator(checker, store, 4)
	return NewAvailabilityService(checker, enum, nil, &fixedTravel{minutes: travelMinutes}, store)
}

func TestEnumerateFullGrid(t *testing.T) {
	store := &memStore{}
	svc := newTestAvailability(t, store, 10)
	ctx := context.Background()

	early, err := svc.EnumerateAvailableSlots(ctx, "2026-03-03", "Bellas Artes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(early) != 35 || early[0] != hm(8, 30) || early[len(early)-1] != hm(17, 0) {
		t.Fatalf("expected 08:30..17:00 (35 slots), got %d from %v", len(early), early)
	}

	regular, err := svc.EnumerateAvailableSlots(ctx, "2026-03-03", "Salto del Agua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regular) != 29 || regular[0] != hm(10, 0) {
		t.Fatalf("expected 10:00..17:00 (29 slots), got %d from %v", len(regular), regular)
	}

	for i := 1; i < len(regular); i++ {
		if regular[i]-regular[i-1] != domain.SlotStepMinutes {
			t.Fatalf("slots out of order at %d: %v", i, regular)
		}
	}
}

func TestEnumerateMatchesCheckAvailability(t *testing.T) {
	store := &memStore{}
	rules := testRules(t)
	date := mustDate(t, rules, "2026-03-03")
	store.add(domain.BookingSlot{Date: date, TimeOfDay: hm(11, 0), Station: "Hidalgo", Status: domain.StatusConfirmed})
	store.add(domain.BookingSlot{Date: date, TimeOfDay: hm(15, 30), Station: "Tacubaya", Status: domain.StatusPending})
	store.add(domain.BookingSlot{Date: date, TimeOfDay: hm(12, 0), Station: "Merced", Status: domain.StatusCancelled})

	svc := newTestAvailability(t, store, 20)
	ctx := context.Background()

	slots, err := svc.EnumerateAvailableSlots(ctx, "2026-03-03", "Balderas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open := make(map[domain.TimeOfDay]bool, len(slots))
	for _, s := range slots {
		open[s] = true
	}

	for t0 := hm(8, 30); t0 <= hm(17, 0); t0 += domain.SlotStepMinutes {
		v, err := svc.CheckAvailability(ctx, "2026-03-03", t0.String(), "Balderas")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Available != open[t0] {
			t.Fatalf("%s: enumerate says %v, check says %+v", t0, open[t0], v)
		}
	}

	if open[hm(11, 0)] || open[hm(11, 30)] || !open[hm(11, 45)] || !open[hm(12, 0)] {
		t.Fatalf("unexpected slots around bookings: %v", slots)
	}
}

func TestEnumerateSkipsStoreForImpossibleRequests(t *testing.T) {
	store := &memStore{}
	svc := newTestAvailability(t, store, 10)
	ctx := context.Background()

	slots, err := svc.EnumerateAvailableSlots(ctx, "2026-03-02", "Balderas")
	if err != nil || len(slots) != 0 {
		t.Fatalf("expected no slots for today, got %v %v", slots, err)
	}

	slots, err = svc.EnumerateAvailableSlots(ctx, "2026-03-03", "Ciudad Azteca")
	if err != nil || len(slots) != 0 {
		t.Fatalf("expected no slots for excluded station, got %v %v", slots, err)
	}

	if store.listCalls.Load() != 0 {
		t.Fatalf("store should not be read, got %d calls", store.listCalls.Load())
	}
}

func TestEnumerateSurfacesStoreFailure(t *testing.T) {
	store := &memStore{failList: errStoreDown}
	svc := newTestAvailability(t, store, 10)

	_, err := svc.EnumerateAvailableSlots(context.Background(), "2026-03-03", "Balderas")

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || !errors.Is(err, errStoreDown) {
		t.Fatalf("expected upstream error wrapping the store failure, got %v", err)
	}
}
