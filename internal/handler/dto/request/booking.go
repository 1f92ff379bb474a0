package request

import (
	"strings"

	"studio-scheduler/internal/domain/booking"
)

type CreateBookingRequest struct {
	// Date accepts both 2006-01-02 and 02.01.2006.
	Date          string `json:"date" binding:"required"`
	StartHour     int    `json:"start_hour" binding:"min=0,max=23"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
}

func (r CreateBookingRequest) ParseDate() (booking.Day, error) {
	return booking.ParseDay(strings.TrimSpace(r.Date))
}

type CreateWalkInRequest struct {
	Date          string `json:"date" binding:"required"`
	StartHour     int    `json:"start_hour" binding:"min=0,max=23"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
	ClientName    string `json:"client_name" binding:"required"`
	ClientContact string `json:"client_contact"`
}

func (r CreateWalkInRequest) ParseDate() (booking.Day, error) {
	return booking.ParseDay(strings.TrimSpace(r.Date))
}

type DialogStepRequest struct {
	Input string `json:"input" binding:"required"`
}
