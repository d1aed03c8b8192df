// Package app composes the adapters and services shared by the server and
// the CLI.
package app

import (
	"context"
	"courier-slot-service/internal/adapters/cache"
	"courier-slot-service/internal/adapters/repositories"
	"courier-slot-service/internal/adapters/routing"
	"courier-slot-service/internal/api"
	"courier-slot-service/internal/api/handlers"
	"courier-slot-service/internal/config"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/db"
	"courier-slot-service/internal/ports"
	"courier-slot-service/internal/services"
	"courier-slot-service/internal/stations"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const memoryCacheSize = 4096

type App struct {
	Config *config.Config
	Rules  domain.BusinessRules
	Logger zerolog.Logger

	DB    *sql.DB
	Redis *redis.Client

	Index        *stations.Index
	Estimator    *services.Estimator
	Travel       *services.ResolutionChain
	Store        *repositories.PostgresBookingRepository
	Checker      *services.FeasibilityChecker
	Availability *services.AvailabilityService
	Bookings     *services.BookingService
}

// New connects to postgres (and Redis when configured) and wires the
// scheduling services. Redis is optional: when it cannot be reached the
// process runs with the in-memory cache only.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	idx, err := stations.Load(cfg.StationsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{Config: cfg, Rules: rules, Logger: logger, DB: conn, Index: idx}

	tiers := []ports.TravelCache{cache.NewMemoryTravelCache(memoryCacheSize, cfg.TravelCacheTTL, nil)}
	if cfg.RedisEnabled() {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; travel cache is process-local")
		} else {
			a.Redis = client
			tiers = append(tiers, cache.NewRedisTravelCache(client, cfg.TravelCacheTTL, logger))
		}
	}

	a.Estimator = services.NewEstimator(idx, services.DefaultEstimatorParams())

	resolvers := []services.Resolver{services.GraphResolver{Estimator: a.Estimator}}
	if cfg.RoutingEnabled() {
		ors, err := routing.NewORSRoutingService(cfg.ORSAPIKey, routing.ORSOptions{
			BaseURL:       cfg.ORSBaseURL,
			Profile:       cfg.ORSProfile,
			Country:       cfg.ORSCountry,
			RatePerMinute: cfg.ORSRatePerMinute,
			GeocodeCache:  repositories.NewPostgresGeocodeCache(conn, cfg.GeocodeCacheMaxAge),
		}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		resolvers = append(resolvers, services.RoutingResolver{Service: ors, Logger: logger})
	} else {
		logger.Info().Msg("ORS_API_KEY not set; routing fallback disabled")
	}
	resolvers = append(resolvers, services.StaticResolver{Minutes: services.DefaultTravelMinutes})

	a.Travel = services.NewResolutionChain(cache.NewTieredTravelCache(tiers...), resolvers...)
	a.Store = repositories.NewPostgresBookingRepository(conn, rules.Location)
	a.Checker = services.NewFeasibilityChecker(rules, a.Travel, time.Now)
	a.Availability = services.NewAvailabilityService(
		a.Checker,
		services.NewSlotEnumerator(a.Checker, a.Store, 0),
		a.Estimator,
		a.Travel,
		a.Store,
	)
	a.Bookings = services.NewBookingService(a.Availability, a.Checker, a.Store)

	logger.Info().
		Int("stations", idx.Len()).
		Bool("redis", a.Redis != nil).
		Bool("routing", cfg.RoutingEnabled()).
		Msg("scheduling services ready")

	return a, nil
}

// Router builds the HTTP API over the wired services.
func (a *App) Router() http.Handler {
	checks := map[string]func(context.Context) error{
		"database": a.DB.PingContext,
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}

	return api.NewRouter(api.Deps{
		Availability: a.Availability,
		Bookings:     a.Bookings,
		Health:       &handlers.HealthHandler{Checks: checks},
		Logger:       a.Logger,
	})
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
