package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"courier-slot-service/internal/stations"
	"time"
)

// Verdict is the outcome of a feasibility check. Rule is set when the slot
// is rejected.
type Verdict struct {
	Available bool
	Rule      domain.RuleID
}

func accept() Verdict { return Verdict{Available: true} }
func reject(r domain.RuleID) Verdict { return Verdict{Rule: r} }

// Reason is the user-facing explanation for a rejection.
func (v Verdict) Reason() string {
	if v.Available {
		return ""
	}
	return v.Rule.Message()
}

// Err converts a rejection into a *domain.RuleViolation.
func (v Verdict) Err() error {
	if v.Available {
		return nil
	}
	return &domain.RuleViolation{Rule: v.Rule}
}

// FeasibilityChecker decides whether the courier can serve a station at a
// given slot. It never mutates state.
type FeasibilityChecker struct {
	rules  domain.BusinessRules
	travel ports.TravelTimeResolver
	now    func() time.Time
}

func NewFeasibilityChecker(
	rules domain.BusinessRules,
	travel ports.TravelTimeResolver,
	now func() time.Time,
) *FeasibilityChecker {
	if now == nil {
		now = time.Now
	}
	return &FeasibilityChecker{rules: rules, travel: travel, now: now}
}

func (c *FeasibilityChecker) Rules() domain.BusinessRules { return c.rules }

// CheckRules evaluates the rules that need no booking data, in order:
// same-day block, grid alignment, excluded station, operating window.
func (c *FeasibilityChecker) CheckRules(date time.Time, tod domain.TimeOfDay, station string) Verdict {
	loc := c.rules.Location
	today := domain.DateOf(c.now(), loc)
	if !domain.DateOf(date, loc).After(today) {
		return reject(domain.RuleSameDay)
	}

	if !tod.OnGrid() {
		return reject(domain.RuleGridAlignment)
	}

	key := stations.Normalize(station)
	if c.rules.IsExcluded(key) {
		return reject(domain.RuleExcluded)
	}

	if tod < c.rules.OpeningFloor(key) || tod > c.rules.Closing {
		return reject(domain.RuleOperatingHours)
	}

	return accept()
}

// Check applies every rule against one snapshot of the date's bookings.
// Cancelled bookings in the snapshot are ignored.
func (c *FeasibilityChecker) Check(
	ctx context.Context,
	date time.Time,
	tod domain.TimeOfDay,
	station string,
	bookings []domain.BookingSlot,
) Verdict {
	v := c.check(ctx, date, tod, station, bookings)

	label := "ok"
	if !v.Available {
		label = string(v.Rule)
	}
	obs.FeasibilityVerdicts.WithLabelValues(label).Inc()

	return v
}

func (c *FeasibilityChecker) check(
	ctx context.Context,
	date time.Time,
	tod domain.TimeOfDay,
	station string,
	bookings []domain.BookingSlot,
) Verdict {
	if v := c.CheckRules(date, tod, station); !v.Available {
		return v
	}

	var prev, next *domain.BookingSlot
	for i := range bookings {
		b := &bookings[i]
		if !b.Active() {
			continue
		}

		switch {
		case b.TimeOfDay == tod:
			return reject(domain.RuleCollision)
		case b.TimeOfDay < tod:
			if prev == nil || b.TimeOfDay > prev.TimeOfDay {
				prev = b
			}
		default:
			if next == nil || b.TimeOfDay < next.TimeOfDay {
				next = b
			}
		}
	}

	buffer := c.rules.BufferMinutes

	if prev != nil {
		need := buffer + c.travel.TravelTime(ctx, prev.Station, station).Minutes
		if int(tod-prev.TimeOfDay) < need {
			return reject(domain.RuleNeighborGap)
		}
	}

	if next != nil {
		need := buffer + c.travel.TravelTime(ctx, station, next.Station).Minutes
		if int(next.TimeOfDay-tod) < need {
			return reject(domain.RuleNeighborGap)
		}
	}

	return accept()
}
