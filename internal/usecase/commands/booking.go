package commands

import (
	"context"
	"sync"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/domain/schedule"
	"studio-scheduler/internal/infra"
	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/errs"
	"studio-scheduler/internal/usecase/queries"
)

type BookingCommands interface {
	// CreateRequest commits a client-selected slot as a pending booking.
	CreateRequest(ctx context.Context, actor identity.Actor, day booking.Day, startHour, duration int) (*queries.BookingView, error)
	// CreateWalkIn commits an admin-entered booking directly as confirmed.
	CreateWalkIn(ctx context.Context, actor identity.Actor, day booking.Day, startHour, duration int, clientName, clientContact string) (*queries.BookingView, error)
	Confirm(ctx context.Context, actor identity.Actor, id int64) error
	Reject(ctx context.Context, actor identity.Actor, id int64) error
	// Cancel is the client cancelling their own booking.
	Cancel(ctx context.Context, actor identity.Actor, id int64) error
	// CancelByAdmin frees a slot on the administrator's initiative.
	CancelByAdmin(ctx context.Context, actor identity.Actor, id int64) error
}

type bookingCommandsImpl struct {
	repo           BookingRepository
	engine         schedule.Engine
	policy         identity.Policy
	notifier       Notifier
	reminders      ReminderScheduler
	clk            clock.Clock
	maxAdvanceDays int

	// commitMu closes the race between the availability check and the write.
	// Two actors can both pass IsAvailable for overlapping hours; serializing
	// the check-then-write section is what keeps the resource single-booked.
	// Global rather than per-day: one studio, one contended resource.
	commitMu sync.Mutex
}

func NewBookingCommands(
	repo BookingRepository,
	engine schedule.Engine,
	policy identity.Policy,
	notifier Notifier,
	reminders ReminderScheduler,
	clk clock.Clock,
	maxAdvanceDays int,
) BookingCommands {
	return &bookingCommandsImpl{
		repo:           repo,
		engine:         engine,
		policy:         policy,
		notifier:       notifier,
		reminders:      reminders,
		clk:            clk,
		maxAdvanceDays: maxAdvanceDays,
	}
}

func (c *bookingCommandsImpl) CreateRequest(
	ctx context.Context,
	actor identity.Actor,
	day booking.Day,
	startHour, duration int,
) (*queries.BookingView, error) {
	if err := c.validateSlot(day, startHour, duration); err != nil {
		return nil, err
	}

	b, err := booking.NewRequest(actor.ID, actor.DisplayName, day, startHour, duration, c.clk.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	created, err := c.commit(ctx, b)
	if err != nil {
		return nil, err
	}

	// Side effects stay outside the critical section: notification delivery
	// and timer arming never extend the check-then-write window.
	c.notifier.NotifyAdmin(ctx, EventBookingRequested, created)
	c.reminders.ArmNag(created.ID())

	return queries.ViewFromBooking(created), nil
}

func (c *bookingCommandsImpl) CreateWalkIn(
	ctx context.Context,
	actor identity.Actor,
	day booking.Day,
	startHour, duration int,
	clientName, clientContact string,
) (*queries.BookingView, error) {
	if !c.policy.IsAdmin(actor) {
		return nil, errs.ErrNotAdmin
	}
	if err := c.validateSlot(day, startHour, duration); err != nil {
		return nil, err
	}

	b, err := booking.NewWalkIn(clientName, clientContact, day, startHour, duration, c.clk.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	created, err := c.commit(ctx, b)
	if err != nil {
		return nil, err
	}

	return queries.ViewFromBooking(created), nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, actor identity.Actor, id int64) error {
	if !c.policy.IsAdmin(actor) {
		return errs.ErrNotAdmin
	}

	b, err := c.load(ctx, id)
	if err != nil {
		return err
	}

	if err := b.Confirm(); err != nil {
		return errs.Mark(err, errs.ErrAlreadyResolved)
	}
	if err := c.repo.UpdateStatus(ctx, id, b.Status()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.reminders.CancelNag(id)
	if ref := b.ClientRef(); ref != nil {
		c.notifier.NotifyClient(ctx, *ref, EventBookingConfirmed, b)
		c.reminders.ArmClientReminders(id, b.SessionStart(c.clk.Now().Location()))
	}
	return nil
}

func (c *bookingCommandsImpl) Reject(ctx context.Context, actor identity.Actor, id int64) error {
	if !c.policy.IsAdmin(actor) {
		return errs.ErrNotAdmin
	}

	b, err := c.load(ctx, id)
	if err != nil {
		return err
	}

	if err := b.Reject(); err != nil {
		return errs.Mark(err, errs.ErrAlreadyResolved)
	}
	if err := c.repo.UpdateStatus(ctx, id, b.Status()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.reminders.CancelNag(id)
	if ref := b.ClientRef(); ref != nil {
		c.notifier.NotifyClient(ctx, *ref, EventBookingRejected, b)
	}
	return nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor identity.Actor, id int64) error {
	b, err := c.load(ctx, id)
	if err != nil {
		return err
	}

	if !b.IsOwnedBy(actor.ID) {
		return errs.ErrNotOwner
	}

	if err := b.CancelByClient(); err != nil {
		return errs.Mark(err, errs.ErrAlreadyResolved)
	}
	if err := c.repo.UpdateStatus(ctx, id, b.Status()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.reminders.CancelAll(id)
	c.notifier.NotifyAdmin(ctx, EventCancelledByClient, b)
	return nil
}

func (c *bookingCommandsImpl) CancelByAdmin(ctx context.Context, actor identity.Actor, id int64) error {
	if !c.policy.IsAdmin(actor) {
		return errs.ErrNotAdmin
	}

	b, err := c.load(ctx, id)
	if err != nil {
		return err
	}

	if err := b.CancelByAdmin(); err != nil {
		return errs.Mark(err, errs.ErrAlreadyResolved)
	}
	if err := c.repo.UpdateStatus(ctx, id, b.Status()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.reminders.CancelAll(id)
	if ref := b.ClientRef(); ref != nil {
		c.notifier.NotifyClient(ctx, *ref, EventCancelledByAdmin, b)
	}
	return nil
}

// validateSlot rejects slots the studio could never host, before any store
// access: stale or too-distant dates and hours outside the operating window.
// Occupancy is checked later, inside commit.
func (c *bookingCommandsImpl) validateSlot(day booking.Day, startHour, duration int) error {
	today := booking.DayOf(c.clk.Now())
	if day.Before(today) {
		return errs.ErrDateInPast
	}
	if today.DaysUntil(day) > c.maxAdvanceDays {
		return errs.ErrDateTooFar
	}

	hours := c.engine.Hours()
	if !hours.ValidDuration(duration) {
		return errs.ErrInvalidDuration
	}
	if startHour < hours.Open || startHour > hours.LastStart || startHour+duration > hours.Close {
		return errs.ErrOutsideHours
	}
	return nil
}

// commit re-validates availability and writes under the commit mutex. The
// dialogue has already checked the slot, but time passed since then; this
// check against current store state is the authoritative one.
func (c *bookingCommandsImpl) commit(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	existing, err := c.repo.ListByDay(ctx, b.Day())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !c.engine.IsAvailable(existing, b.Day(), b.StartHour(), b.DurationHours()) {
		return nil, errs.ErrSlotUnavailable
	}

	id, err := c.repo.Create(ctx, b)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.ErrSlotUnavailable
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b.WithID(id), nil
}

func (c *bookingCommandsImpl) load(ctx context.Context, id int64) (*booking.Booking, error) {
	b, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}
