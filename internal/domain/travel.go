package domain

import "time"

// TravelSource names the resolver that produced an estimate.
type TravelSource string

const (
	SourceGraph   TravelSource = "graph"
	SourceRouting TravelSource = "routing"
	SourceStatic  TravelSource = "static"
)

// TravelEstimate is a cached, derivable travel duration between two
// normalized station keys. Direction matters: Origin -> Destination.
type TravelEstimate struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Minutes     int          `json:"minutes"`
	Source      TravelSource `json:"source"`
	ComputedAt  time.Time    `json:"computed_at"`
}

// TravelKey builds the cache key for an ordered pair of normalized names.
func TravelKey(origin, destination string) string {
	return origin + "|" + destination
}
