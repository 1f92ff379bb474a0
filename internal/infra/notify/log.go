// Package notify delivers lifecycle messages to the administrator and to
// clients. The log implementation is the default sink; a messenger-backed one
// can replace it without touching the use cases.
package notify

import (
	"context"
	"log/slog"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyAdmin(_ context.Context, event commands.NotifyEvent, b *booking.Booking) {
	n.logger.Info("notify admin",
		slog.String("event", string(event)),
		bookingAttrs(b),
	)
}

func (n *LogNotifier) NotifyClient(_ context.Context, clientRef uuid.UUID, event commands.NotifyEvent, b *booking.Booking) {
	n.logger.Info("notify client",
		slog.String("event", string(event)),
		slog.String("client_ref", clientRef.String()),
		bookingAttrs(b),
	)
}

func bookingAttrs(b *booking.Booking) slog.Attr {
	return slog.Group("booking",
		slog.Int64("id", b.ID()),
		slog.String("day", b.Day().String()),
		slog.Int("start_hour", b.StartHour()),
		slog.Int("duration_hours", b.DurationHours()),
		slog.String("status", string(b.Status())),
		slog.String("display_name", b.DisplayName()),
	)
}
