package ports

import "context"

// Contract for a best-effort external transit routing query.
type RoutingService interface {
	// Return the travel duration in seconds between two free-form locations.
	TravelSeconds(ctx context.Context, origin string, destination string) (int, error)
}
