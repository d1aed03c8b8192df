package handlers

import (
	"context"
	"courier-slot-service/internal/api/dto"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

type Availability interface {
	CheckAvailability(ctx context.Context, date, tod, station string) (services.Verdict, error)
	EnumerateAvailableSlots(ctx context.Context, date, station string) ([]domain.TimeOfDay, error)
	EstimateTravelMinutes(from, to string) (int, bool)
	TravelTime(ctx context.Context, from, to string) domain.TravelEstimate
}

// AvailabilityHandler exposes read-only scheduling queries.
type AvailabilityHandler struct {
	Service Availability
}

func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, tod, station := q.Get("date"), q.Get("time"), q.Get("station")

	v, err := h.Service.CheckAvailability(r.Context(), date, tod, station)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.AvailabilityResponse{
		Date:      date,
		Time:      tod,
		Station:   station,
		Available: v.Available,
	}
	if !v.Available {
		res.Rule = string(v.Rule)
		res.Reason = v.Reason()
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, station := q.Get("date"), q.Get("station")

	slots, err := h.Service.EnumerateAvailableSlots(r.Context(), date, station)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.SlotsResponse{Date: date, Station: station, Slots: make([]string, 0, len(slots))}
	for _, s := range slots {
		res.Slots = append(res.Slots, s.String())
	}

	writeJSON(w, r, http.StatusOK, res)
}

// TravelTime answers through the full resolution chain, or from the
// geographic estimator alone when graph_only=true.
func (h *AvailabilityHandler) TravelTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	graphOnly := false
	if raw := q.Get("graph_only"); raw != "" {
		var err error
		if graphOnly, err = strconv.ParseBool(raw); err != nil {
			writeError(w, r, http.StatusBadRequest, "graph_only must be a boolean")
			return
		}
	}

	if graphOnly {
		minutes, ok := h.Service.EstimateTravelMinutes(from, to)
		if !ok {
			writeError(w, r, http.StatusNotFound, "unresolved")
			return
		}
		writeJSON(w, r, http.StatusOK, dto.TravelTimeResponse{
			From: from, To: to, Minutes: minutes, Source: string(domain.SourceGraph),
		})
		return
	}

	est := h.Service.TravelTime(r.Context(), from, to)
	writeJSON(w, r, http.StatusOK, dto.TravelTimeResponse{
		From: from, To: to, Minutes: est.Minutes, Source: string(est.Source),
	})
}
