package domain

import (
	"strings"
	"time"
)

// BusinessRules holds the compiled scheduling policy.
// Keyword and station lists are stored in normalized form.
type BusinessRules struct {
	Location             *time.Location
	ExcludedKeywords     []string
	EarlyOpeningStations []string
	EarlyOpening         TimeOfDay
	DefaultOpening       TimeOfDay
	Closing              TimeOfDay
	BufferMinutes        int
}

// IsExcluded reports whether a normalized station name contains an excluded keyword.
func (r *BusinessRules) IsExcluded(key string) bool {
	for _, kw := range r.ExcludedKeywords {
		if kw != "" && strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// OpeningFloor returns the earliest bookable time for a normalized station name.
func (r *BusinessRules) OpeningFloor(key string) TimeOfDay {
	for _, s := range r.EarlyOpeningStations {
		if s != "" && strings.Contains(key, s) {
			return r.EarlyOpening
		}
	}
	return r.DefaultOpening
}
