package services

import (
	"courier-slot-service/internal/stations"
	"math"
)

// EstimatorParams tunes the geographic travel-time heuristic.
type EstimatorParams struct {
	SameStationMinutes float64 // walking within one station
	AvgSpeedKMH        float64
	DwellMinutes       float64 // fixed stop overhead per trip
	SameLinePerKM      float64 // intermediate stops on a direct line
	TransferMinutes    float64 // wait + walk when no line is shared
	ShortHopKM         float64
	CongestionFactor   float64 // applied to short hops that still need a transfer
	MinMinutes         int
	MaxMinutes         int
}

func DefaultEstimatorParams() EstimatorParams {
	return EstimatorParams{
		SameStationMinutes: 4,
		AvgSpeedKMH:        32,
		DwellMinutes:       2,
		SameLinePerKM:      0.6,
		TransferMinutes:    7,
		ShortHopKM:         3,
		CongestionFactor:   1.25,
		MinMinutes:         3,
		MaxMinutes:         90,
	}
}

// Estimator approximates transit duration between two stations from their
// coordinates and line memberships. It does no I/O and is safe for
// concurrent use.
type Estimator struct {
	index  *stations.Index
	params EstimatorParams
}

func NewEstimator(index *stations.Index, params EstimatorParams) *Estimator {
	return &Estimator{index: index, params: params}
}

// Estimate returns minutes from origin to destination, or false when either
// name does not resolve to a known station.
func (e *Estimator) Estimate(origin, destination string) (int, bool) {
	from, ok := e.index.Lookup(origin)
	if !ok {
		return 0, false
	}
	to, ok := e.index.Lookup(destination)
	if !ok {
		return 0, false
	}

	p := e.params
	if from.Key == to.Key {
		return clampMinutes(int(math.Round(p.SameStationMinutes)), p.MinMinutes, p.MaxMinutes), true
	}

	km := from.Coords.HaversineKM(to.Coords)
	minutes := km/p.AvgSpeedKMH*60 + p.DwellMinutes

	if from.SharesLine(to) {
		minutes += km * p.SameLinePerKM
	} else {
		minutes += p.TransferMinutes
		if km < p.ShortHopKM {
			minutes *= p.CongestionFactor
		}
	}

	return clampMinutes(int(math.Round(minutes)), p.MinMinutes, p.MaxMinutes), true
}

func clampMinutes(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
