package cache

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/ports"
)

// TieredTravelCache consults tiers in order (fastest first). A hit in a
// slower tier is copied into the faster ones.
type TieredTravelCache struct {
	tiers []ports.TravelCache
}

func NewTieredTravelCache(tiers ...ports.TravelCache) *TieredTravelCache {
	return &TieredTravelCache{tiers: tiers}
}

func (t *TieredTravelCache) Get(ctx context.Context, origin, destination string) (domain.TravelEstimate, bool) {
	for i, tier := range t.tiers {
		est, ok := tier.Get(ctx, origin, destination)
		if !ok {
			continue
		}
		for _, faster := range t.tiers[:i] {
			faster.Put(ctx, est)
		}
		return est, true
	}
	return domain.TravelEstimate{}, false
}

func (t *TieredTravelCache) Put(ctx context.Context, est domain.TravelEstimate) {
	for _, tier := range t.tiers {
		tier.Put(ctx, est)
	}
}
