package handlers

import (
	"context"
	"courier-slot-service/internal/api/dto"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Bookings interface {
	Create(ctx context.Context, req services.CreateBookingRequest) (domain.BookingSlot, error)
	Get(ctx context.Context, id string) (domain.BookingSlot, error)
	List(ctx context.Context, date string) ([]domain.BookingSlot, error)
	Confirm(ctx context.Context, id string) (domain.BookingSlot, error)
	Cancel(ctx context.Context, id string) (domain.BookingSlot, error)
	Delete(ctx context.Context, id string) error
}

type BookingHandler struct {
	Service Bookings
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.Service.Create(r.Context(), services.CreateBookingRequest{
		Date:            req.Date,
		Time:            req.Time,
		Station:         req.Station,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewBookingResponse(b))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return
	}

	bookings, err := h.Service.List(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListBookingsResponse{Bookings: make([]dto.BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		res.Bookings = append(res.Bookings, dto.NewBookingResponse(b))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewBookingResponse(b))
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Confirm)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel)
}

func (h *BookingHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id string) (domain.BookingSlot, error),
) {
	b, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewBookingResponse(b))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
