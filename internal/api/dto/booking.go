package dto

import (
	"courier-slot-service/internal/domain"
	"time"
)

type CreateBookingRequest struct {
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time" validate:"required"`
	Station         string `json:"station" validate:"required,max=200"`
	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerContact string `json:"customer_contact" validate:"max=200"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Station         string    `json:"station"`
	CustomerName    string    `json:"customer_name"`
	CustomerContact string    `json:"customer_contact,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func NewBookingResponse(b domain.BookingSlot) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		Date:            domain.FormatDate(b.Date),
		Time:            b.TimeOfDay.String(),
		Station:         b.Station,
		CustomerName:    b.CustomerName,
		CustomerContact: b.CustomerContact,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
