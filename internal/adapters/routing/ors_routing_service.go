package routing

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ORSRoutingService implements RoutingService using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Matrix duration lookups
//   - Client-side throttling and retry/backoff
//
// The service is safe for concurrent use.
type ORSRoutingService struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	country      string
	geocodeCache ports.GeocodeCache
	limiter      *rate.Limiter
	backoff      time.Duration
	logger       zerolog.Logger
}

type ORSOptions struct {
	BaseURL       string
	Profile       string
	Country       string
	RatePerMinute int
	Timeout       time.Duration
	GeocodeCache  ports.GeocodeCache
	HTTPClient    *http.Client
}

func NewORSRoutingService(apiKey string, opts ORSOptions, logger zerolog.Logger) (*ORSRoutingService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openrouteservice.org"
	}
	if opts.Profile == "" {
		opts.Profile = "driving-car"
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 40
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	session := opts.HTTPClient
	if session == nil {
		session = &http.Client{Timeout: opts.Timeout}
	}

	return &ORSRoutingService{
		session:      session,
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		profile:      opts.Profile,
		country:      opts.Country,
		geocodeCache: opts.GeocodeCache,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 5),
		backoff:      200 * time.Millisecond,
		logger:       logger.With().Str("component", "ors").Logger(),
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSRoutingService) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TravelSeconds geocodes both texts and asks the matrix endpoint for the
// duration of the origin -> destination leg.
func (o *ORSRoutingService) TravelSeconds(
	ctx context.Context,
	origin string,
	destination string,
) (_ int, err error) {
	defer obs.Time(ctx, "ors.TravelSeconds")(&err)
	defer func() {
		if err != nil {
			obs.RoutingRequests.WithLabelValues("error").Inc()
			return
		}
		obs.RoutingRequests.WithLabelValues("ok").Inc()
	}()

	normOrigin := o.normalize(origin)
	if normOrigin == "" {
		return 0, errors.New("get ORS travel time: origin must be non-empty")
	}

	normDestination := o.normalize(destination)
	if normDestination == "" {
		return 0, errors.New("get ORS travel time: destination must be non-empty")
	}

	coords, err := o.resolveCoordinates(ctx, []string{normOrigin, normDestination})
	if err != nil {
		return 0, fmt.Errorf("get ORS travel time %q -> %q: %w", normOrigin, normDestination, err)
	}

	seconds, err := o.fetchDuration(ctx, coords[normOrigin], coords[normDestination])
	if err != nil {
		return 0, fmt.Errorf("get ORS travel time %q -> %q: %w", normOrigin, normDestination, err)
	}

	return seconds, nil
}

// resolveCoordinates returns coordinates for every address, consulting the
// geocode cache before calling ORS and persisting fresh results.
func (o *ORSRoutingService) resolveCoordinates(
	ctx context.Context,
	addresses []string,
) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		cached, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			// The cache is an optimization; geocode directly instead.
			o.logger.Warn().Err(err).Msg("geocode cache read failed")
		} else {
			hits = cached
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(misses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("retrieving coordinates: %w", err)
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			o.logger.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	coords := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		coords[k] = v
	}
	for k, v := range fresh {
		coords[k] = v
	}

	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
	}

	return coords, nil
}
