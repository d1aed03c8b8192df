package services

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"courier-slot-service/internal/stations"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTravelMinutes = 15
	routingMinMinutes    = 8
	routingMaxMinutes    = 90
)

// Resolver is one strategy in the travel-time resolution chain.
type Resolver interface {
	Source() domain.TravelSource
	Resolve(ctx context.Context, origin, destination string) (int, bool)
}

type GraphResolver struct {
	Estimator *Estimator
}

func (GraphResolver) Source() domain.TravelSource { return domain.SourceGraph }

func (g GraphResolver) Resolve(_ context.Context, origin, destination string) (int, bool) {
	return g.Estimator.Estimate(origin, destination)
}

// RoutingResolver asks the external routing service. Failures are logged and
// reported as unresolved so the chain moves on.
type RoutingResolver struct {
	Service ports.RoutingService
	Logger  zerolog.Logger
}

func (RoutingResolver) Source() domain.TravelSource { return domain.SourceRouting }

func (r RoutingResolver) Resolve(ctx context.Context, origin, destination string) (int, bool) {
	seconds, err := r.Service.TravelSeconds(ctx, origin, destination)
	if err != nil {
		r.Logger.Warn().Err(err).Str("origin", origin).Str("destination", destination).
			Msg("routing service failed; falling back")
		return 0, false
	}

	minutes := int(math.Ceil(float64(seconds) / 60))
	return clampMinutes(minutes, routingMinMinutes, routingMaxMinutes), true
}

type StaticResolver struct {
	Minutes int
}

func (StaticResolver) Source() domain.TravelSource { return domain.SourceStatic }

func (s StaticResolver) Resolve(context.Context, string, string) (int, bool) {
	return s.Minutes, true
}

// ResolutionChain answers travel times from the cache, or by trying each
// resolver in order and caching whichever answers. Concurrent misses for the
// same pair share one resolution, which runs detached from any single
// caller's cancellation and is bounded by resolveTimeout.
type ResolutionChain struct {
	resolvers      []Resolver
	cache          ports.TravelCache
	group          singleflight.Group
	now            func() time.Time
	resolveTimeout time.Duration
}

const defaultResolveTimeout = 30 * time.Second

func NewResolutionChain(cache ports.TravelCache, resolvers ...Resolver) *ResolutionChain {
	return &ResolutionChain{
		resolvers:      resolvers,
		cache:          cache,
		now:            time.Now,
		resolveTimeout: defaultResolveTimeout,
	}
}

// WithClock overrides the timestamp source for ComputedAt.
func (c *ResolutionChain) WithClock(now func() time.Time) *ResolutionChain {
	c.now = now
	return c
}

func (c *ResolutionChain) TravelTime(ctx context.Context, origin, destination string) domain.TravelEstimate {
	from, to := cacheKey(origin), cacheKey(destination)

	if est, ok := c.cache.Get(ctx, from, to); ok {
		obs.TravelCacheLookups.WithLabelValues("hit").Inc()
		return est
	}
	obs.TravelCacheLookups.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(domain.TravelKey(from, to), func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.resolveTimeout)
		defer cancel()

		est := c.resolve(rctx, origin, destination)
		est.Origin, est.Destination = from, to
		// An answer degraded by the timeout stays out of the cache.
		if rctx.Err() == nil {
			c.cache.Put(rctx, est)
		}
		return est, nil
	})

	select {
	case res := <-ch:
		return res.Val.(domain.TravelEstimate)
	case <-ctx.Done():
		// The caller is gone; the shared resolution keeps running for the others.
		return domain.TravelEstimate{
			Origin:      from,
			Destination: to,
			Minutes:     DefaultTravelMinutes,
			Source:      domain.SourceStatic,
			ComputedAt:  c.now(),
		}
	}
}

func (c *ResolutionChain) resolve(ctx context.Context, origin, destination string) domain.TravelEstimate {
	for _, r := range c.resolvers {
		if minutes, ok := r.Resolve(ctx, origin, destination); ok {
			obs.TravelResolutions.WithLabelValues(string(r.Source())).Inc()
			return domain.TravelEstimate{Minutes: minutes, Source: r.Source(), ComputedAt: c.now()}
		}
	}

	obs.TravelResolutions.WithLabelValues(string(domain.SourceStatic)).Inc()
	return domain.TravelEstimate{Minutes: DefaultTravelMinutes, Source: domain.SourceStatic, ComputedAt: c.now()}
}

// cacheKey prefers the normalized station key; names that normalize to
// nothing still get a stable key.
func cacheKey(name string) string {
	if k := stations.Normalize(name); k != "" {
		return k
	}
	return strings.ToLower(strings.TrimSpace(name))
}
