package components

import (
	"context"
	"log/slog"

	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/config"
	"studio-scheduler/internal/reminder"
	"studio-scheduler/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		commands.NewReminderDispatcher,
		fx.Annotate(
			NewReminderScheduler,
			fx.As(new(commands.ReminderScheduler)),
		),
	),
)

func NewReminderScheduler(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, fire reminder.FireFunc, logger *slog.Logger) *reminder.Scheduler {
	sched := reminder.New(clk, cfg.Booking.NagInterval, fire)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sched.Stop()
			logger.Info("reminder scheduler stopped")
			return nil
		},
	})

	return sched
}
