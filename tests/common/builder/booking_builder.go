//go:build unit || e2e

package builder

import (
	"time"

	"studio-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID             int64
	ClientRef      *uuid.UUID
	DisplayName    string
	ContactInfo    string
	Day            booking.Day
	StartHour      int
	DurationHours  int
	Status         booking.Status
	CreatedAt      time.Time
	CreatedByAdmin bool
}

func NewBookingBuilder() *BookingBuilder {
	ref := uuid.New()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:            1,
		ClientRef:     &ref,
		DisplayName:   "Test Client",
		Day:           booking.DayOf(now.AddDate(0, 0, 1)),
		StartHour:     10,
		DurationHours: 2,
		Status:        booking.StatusPending,
		CreatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) AsWalkIn() *BookingBuilder {
	b.ClientRef = nil
	b.ContactInfo = "+7 900 000-00-00"
	b.Status = booking.StatusConfirmed
	b.CreatedByAdmin = true
	return b
}

func (b *BookingBuilder) Build() *booking.Booking {
	return booking.Reconstruct(
		b.ID,
		b.ClientRef,
		b.DisplayName,
		b.ContactInfo,
		b.Day,
		b.StartHour,
		b.DurationHours,
		b.Status,
		b.CreatedAt,
		b.CreatedByAdmin,
	)
}

func (b *BookingBuilder) BuildValue() booking.Booking {
	return *b.Build()
}
