package commands

import (
	"context"
	"log/slog"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/reminder"
)

// NewReminderDispatcher builds the fire handler for the reminder scheduler.
// Events carry only (bookingID, kind); the dispatcher looks the booking up
// fresh, so a timer that outlives a cancellation race sees current state.
func NewReminderDispatcher(repo BookingRepository, notifier Notifier, logger *slog.Logger) reminder.FireFunc {
	return func(ctx context.Context, ev reminder.Event) bool {
		b, err := repo.FindByID(ctx, ev.BookingID)
		if err != nil {
			logger.Warn("reminder fired for unknown booking",
				"booking_id", ev.BookingID, "kind", string(ev.Kind), "error", err.Error())
			return false
		}

		switch ev.Kind {
		case reminder.KindAdminNag:
			// De-registration on confirm/reject is best-effort; this status
			// check at fire time is the authoritative self-cancel.
			if b.Status() != booking.StatusPending {
				return false
			}
			notifier.NotifyAdmin(ctx, EventPendingUnconfirmed, b)
			return true

		case reminder.KindClient24h, reminder.KindClient2h:
			if b.Status() != booking.StatusConfirmed || b.ClientRef() == nil {
				return false
			}
			event := EventSessionIn24h
			if ev.Kind == reminder.KindClient2h {
				event = EventSessionIn2h
			}
			notifier.NotifyClient(ctx, *b.ClientRef(), event, b)
			return false

		default:
			logger.Warn("reminder fired with unknown kind", "kind", string(ev.Kind))
			return false
		}
	}
}
