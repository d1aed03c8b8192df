package domain

import "testing"

func TestBusinessRulesOpeningFloor(t *testing.T) {
	r := BusinessRules{
		ExcludedKeywords:     []string{"pantitlan"},
		EarlyOpeningStations: []string{"zocalo", "bellas artes"},
		EarlyOpening:         NewTimeOfDay(8, 30),
		DefaultOpening:       NewTimeOfDay(10, 0),
		Closing:              NewTimeOfDay(17, 0),
	}

	if got := r.OpeningFloor("zocalo tenochtitlan"); got != NewTimeOfDay(8, 30) {
		t.Errorf("zocalo floor = %s, want 08:30", got)
	}
	if got := r.OpeningFloor("balbuena"); got != NewTimeOfDay(10, 0) {
		t.Errorf("balbuena floor = %s, want 10:00", got)
	}

	if !r.IsExcluded("pantitlan") {
		t.Error("pantitlan should be excluded")
	}
	if r.IsExcluded("balbuena") {
		t.Error("balbuena should not be excluded")
	}
}
