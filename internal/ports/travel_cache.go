package ports

import (
	"context"
	"courier-slot-service/internal/domain"
)

// TravelCache memoizes travel estimates keyed by ordered normalized pair.
// Implementations expire entries after a fixed TTL, checked on read.
// Put must tolerate concurrent writes to the same key (last writer wins).
type TravelCache interface {
	Get(ctx context.Context, origin, destination string) (domain.TravelEstimate, bool)
	Put(ctx context.Context, est domain.TravelEstimate)
}

// TravelTimeResolver answers travel durations between stations. It never
// fails: unresolvable pairs degrade to a default estimate.
type TravelTimeResolver interface {
	TravelTime(ctx context.Context, origin, destination string) domain.TravelEstimate
}
