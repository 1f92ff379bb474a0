package commands

import (
	"context"
	"time"

	"studio-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

// BookingRepository is the write side of the booking store. Creation is
// append-only (the store assigns a monotonically increasing id); updates only
// ever move the status, records are never deleted.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (int64, error)
	FindByID(ctx context.Context, id int64) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status booking.Status) error
	ListByDay(ctx context.Context, day booking.Day) ([]booking.Booking, error)
}

// NotifyEvent names a lifecycle moment the counterparty should hear about.
type NotifyEvent string

const (
	EventBookingRequested   NotifyEvent = "booking_requested"
	EventBookingConfirmed   NotifyEvent = "booking_confirmed"
	EventBookingRejected    NotifyEvent = "booking_rejected"
	EventCancelledByClient  NotifyEvent = "booking_cancelled_by_client"
	EventCancelledByAdmin   NotifyEvent = "booking_cancelled_by_admin"
	EventPendingUnconfirmed NotifyEvent = "pending_unconfirmed"
	EventSessionIn24h       NotifyEvent = "session_in_24h"
	EventSessionIn2h        NotifyEvent = "session_in_2h"
)

// Notifier is fire-and-forget message delivery. Implementations log failures
// and never propagate them; a missed message never rolls back a transition.
type Notifier interface {
	NotifyAdmin(ctx context.Context, event NotifyEvent, b *booking.Booking)
	NotifyClient(ctx context.Context, clientRef uuid.UUID, event NotifyEvent, b *booking.Booking)
}

// ReminderScheduler arms and cancels the timed tasks keyed to a booking.
// Cancellation is best-effort; the fire-time status check is the real guard.
type ReminderScheduler interface {
	ArmNag(bookingID int64)
	CancelNag(bookingID int64)
	ArmClientReminders(bookingID int64, sessionStart time.Time)
	CancelAll(bookingID int64)
}
