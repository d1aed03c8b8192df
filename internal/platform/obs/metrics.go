package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TravelResolutions counts travel-time resolutions by the source that answered.
	TravelResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_travel_resolutions_total",
		Help: "Travel-time resolutions by source (graph, routing, static).",
	}, []string{"source"})

	// TravelCacheLookups counts travel cache lookups by result.
	TravelCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_travel_cache_lookups_total",
		Help: "Travel-time cache lookups by result (hit, miss).",
	}, []string{"result"})

	// FeasibilityVerdicts counts feasibility decisions by rule (ok when available).
	FeasibilityVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_feasibility_verdicts_total",
		Help: "Slot feasibility decisions by failing rule, or ok.",
	}, []string{"rule"})

	// RoutingRequests counts calls to the external routing service by outcome.
	RoutingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courier_routing_requests_total",
		Help: "External routing service calls by outcome.",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courier_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
