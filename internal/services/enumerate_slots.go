package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/ports"
	"courier-slot-service/internal/stations"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultEnumerateConcurrency = 8

// SlotEnumerator lists the open grid times for a station on a date.
type SlotEnumerator struct {
	checker     *FeasibilityChecker
	bookings    ports.BookingReader
	concurrency int
}

func NewSlotEnumerator(checker *FeasibilityChecker, bookings ports.BookingReader, concurrency int) *SlotEnumerator {
	if concurrency <= 0 {
		concurrency = defaultEnumerateConcurrency
	}
	return &SlotEnumerator{checker: checker, bookings: bookings, concurrency: concurrency}
}

// Grid returns every grid time from the station's opening floor through
// closing, inclusive.
func (e *SlotEnumerator) Grid(station string) []domain.TimeOfDay {
	rules := e.checker.Rules()
	floor := rules.OpeningFloor(stations.Normalize(station))

	var out []domain.TimeOfDay
	for t := floor; t <= rules.Closing; t += domain.SlotStepMinutes {
		out = append(out, t)
	}
	return out
}

// Enumerate returns the feasible grid times in ascending order. The date's
// bookings are read once and every candidate is checked against that
// snapshot. Dates or stations that can never be served return an empty
// list without touching the store.
func (e *SlotEnumerator) Enumerate(ctx context.Context, date time.Time, station string) ([]domain.TimeOfDay, error) {
	grid := e.Grid(station)
	if len(grid) == 0 {
		return []domain.TimeOfDay{}, nil
	}

	if v := e.checker.CheckRules(date, grid[0], station); !v.Available {
		switch v.Rule {
		case domain.RuleSameDay, domain.RuleExcluded:
			return []domain.TimeOfDay{}, nil
		}
	}

	active, err := e.bookings.ListActiveBookings(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("enumerate slots: list active bookings: %w", err)
	}

	open := make([]bool, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, t := range grid {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			open[i] = e.checker.Check(gctx, date, t, station, active).Available
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enumerate slots: %w", err)
	}

	out := make([]domain.TimeOfDay, 0, len(grid))
	for i, ok := range open {
		if ok {
			out = append(out, grid[i])
		}
	}
	return out, nil
}
