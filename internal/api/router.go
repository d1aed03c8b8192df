package api

import (
	"courier-slot-service/internal/api/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Deps struct {
	Availability handlers.Availability
	Bookings     handlers.Bookings
	Health       *handlers.HealthHandler
	Logger       zerolog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestContext)
	r.Use(accessLog(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	health := d.Health
	if health == nil {
		health = &handlers.HealthHandler{}
	}
	avail := &handlers.AvailabilityHandler{Service: d.Availability}
	bookings := &handlers.BookingHandler{Service: d.Bookings}

	r.Get("/health", health.Get)
	r.Get("/availability", avail.Check)
	r.Get("/slots", avail.Slots)
	r.Get("/travel-time", avail.TravelTime)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", bookings.Create)
		r.Get("/", bookings.List)
		r.Get("/{id}", bookings.Get)
		r.Post("/{id}/confirm", bookings.Confirm)
		r.Post("/{id}/cancel", bookings.Cancel)
		r.Delete("/{id}", bookings.Delete)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
