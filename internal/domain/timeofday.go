package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotStepMinutes is the width of the quantized booking grid.
const SlotStepMinutes = 15

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, &ValidationError{Field: "time", Msg: fmt.Sprintf("%q is not in HH:MM format", s)}
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, &ValidationError{Field: "time", Msg: fmt.Sprintf("invalid hour in %q", s)}
	}

	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || m < 0 || m > 59 {
		return 0, &ValidationError{Field: "time", Msg: fmt.Sprintf("invalid minute in %q", s)}
	}

	return NewTimeOfDay(h, m), nil
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }

// OnGrid reports whether t is aligned to the booking grid.
func (t TimeOfDay) OnGrid() bool { return int(t)%SlotStepMinutes == 0 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

const dateLayout = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" as a calendar date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Msg: fmt.Sprintf("%q is not in YYYY-MM-DD format", s)}
	}
	return d, nil
}

// DateOf truncates t to its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(d time.Time) string { return d.Format(dateLayout) }
