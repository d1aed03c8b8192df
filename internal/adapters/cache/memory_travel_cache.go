package cache

import (
	"context"
	"courier-slot-service/internal/domain"
	"time"

	"github.com/bluele/gcache"
)

// DefaultTravelTTL bounds how long a travel estimate stays valid after it was computed.
const DefaultTravelTTL = 60 * time.Minute

// MemoryTravelCache is an in-process LRU of travel estimates.
// Validity is measured from each estimate's ComputedAt and checked on read;
// there is no background sweeper.
type MemoryTravelCache struct {
	gc    gcache.Cache
	ttl   time.Duration
	clock gcache.Clock
}

// NewMemoryTravelCache builds a cache holding up to size entries.
// A nil clock uses wall time.
func NewMemoryTravelCache(size int, ttl time.Duration, clock gcache.Clock) *MemoryTravelCache {
	if clock == nil {
		clock = gcache.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTravelTTL
	}

	return &MemoryTravelCache{
		gc:    gcache.New(size).LRU().Clock(clock).Build(),
		ttl:   ttl,
		clock: clock,
	}
}

func (m *MemoryTravelCache) Get(_ context.Context, origin, destination string) (domain.TravelEstimate, bool) {
	v, err := m.gc.Get(domain.TravelKey(origin, destination))
	if err != nil {
		return domain.TravelEstimate{}, false
	}

	est, ok := v.(domain.TravelEstimate)
	if !ok || m.clock.Now().Sub(est.ComputedAt) >= m.ttl {
		return domain.TravelEstimate{}, false
	}
	return est, true
}

// Put stores est for the remainder of its TTL window. Entries that are
// already stale are dropped.
func (m *MemoryTravelCache) Put(_ context.Context, est domain.TravelEstimate) {
	remaining := m.ttl - m.clock.Now().Sub(est.ComputedAt)
	if remaining <= 0 {
		return
	}
	_ = m.gc.SetWithExpire(domain.TravelKey(est.Origin, est.Destination), est, remaining)
}

func (m *MemoryTravelCache) Len() int { return m.gc.Len(false) }
