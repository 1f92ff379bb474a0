package response

import (
	"time"

	"studio-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID             int64      `json:"id"`
	ClientRef      *uuid.UUID `json:"clientRef,omitempty"`
	DisplayName    string     `json:"displayName"`
	ContactInfo    string     `json:"contactInfo,omitempty"`
	Date           string     `json:"date"`
	StartHour      int        `json:"startHour"`
	DurationHours  int        `json:"durationHours"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedByAdmin bool       `json:"createdByAdmin"`
}

type DayScheduleResponse struct {
	Date      string             `json:"date"`
	BusyHours []int              `json:"busyHours"`
	FreeSlots []int              `json:"freeSlots"`
	Bookings  []*BookingResponse `json:"bookings"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:             v.ID,
		ClientRef:      v.ClientRef,
		DisplayName:    v.DisplayName,
		ContactInfo:    v.ContactInfo,
		Date:           v.Date,
		StartHour:      v.StartHour,
		DurationHours:  v.DurationHours,
		Status:         v.Status,
		CreatedAt:      v.CreatedAt,
		CreatedByAdmin: v.CreatedByAdmin,
	}
}

func FromBookingViews(vs []*queries.BookingView) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromBookingView(v))
	}
	return out
}

func FromDayScheduleView(v *queries.DayScheduleView) *DayScheduleResponse {
	return &DayScheduleResponse{
		Date:      v.Date,
		BusyHours: v.BusyHours,
		FreeSlots: v.FreeSlots,
		Bookings:  FromBookingViews(v.Bookings),
	}
}
