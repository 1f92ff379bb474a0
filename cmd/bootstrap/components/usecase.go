package components

import (
	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/domain/schedule"
	"studio-scheduler/internal/infra/notify"
	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/config"
	"studio-scheduler/internal/usecase/commands"
	"studio-scheduler/internal/usecase/dialog"
	"studio-scheduler/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		NewEngine,
		identity.NewRolePolicy,
		fx.Annotate(
			notify.NewLogNotifier,
			fx.As(new(commands.Notifier)),
		),
		queries.NewBookingQueries,
		NewBookingCommands,
		NewDialogFlow,
		dialog.NewManager,
	),
)

func NewEngine(cfg config.Config) schedule.Engine {
	return schedule.NewEngine(schedule.Hours{
		Open:        cfg.Booking.OpenHour,
		LastStart:   cfg.Booking.LastStartHour,
		Close:       cfg.Booking.CloseHour,
		MaxDuration: cfg.Booking.MaxDuration,
	})
}

func NewBookingCommands(
	repo commands.BookingRepository,
	engine schedule.Engine,
	policy identity.Policy,
	notifier commands.Notifier,
	reminders commands.ReminderScheduler,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(repo, engine, policy, notifier, reminders, clk, cfg.Booking.MaxAdvanceDays)
}

func NewDialogFlow(q queries.BookingQueries, c commands.BookingCommands, clk clock.Clock, cfg config.Config) *dialog.Flow {
	return dialog.NewFlow(q, c, clk, cfg.Booking.MaxAdvanceDays)
}
