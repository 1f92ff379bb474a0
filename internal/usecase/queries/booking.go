package queries

import (
	"context"
	"sort"
	"time"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/domain/schedule"
	"studio-scheduler/internal/infra"
	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID             int64      `json:"id"`
	ClientRef      *uuid.UUID `json:"client_ref,omitempty"`
	DisplayName    string     `json:"display_name"`
	ContactInfo    string     `json:"contact_info,omitempty"`
	Date           string     `json:"date"`
	StartHour      int        `json:"start_hour"`
	DurationHours  int        `json:"duration_hours"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedByAdmin bool       `json:"created_by_admin"`
}

type DayScheduleView struct {
	Date      string         `json:"date"`
	BusyHours []int          `json:"busy_hours"`
	FreeSlots []int          `json:"free_slots"`
	Bookings  []*BookingView `json:"bookings"`
}

// BookingReader is the read side of the booking store. Pending and confirmed
// bookings both count as occupying in everything derived from it.
type BookingReader interface {
	FindByID(ctx context.Context, id int64) (*booking.Booking, error)
	ListByDay(ctx context.Context, day booking.Day) ([]booking.Booking, error)
	ListByClient(ctx context.Context, clientRef uuid.UUID) ([]booking.Booking, error)
	ListByStatus(ctx context.Context, status booking.Status) ([]booking.Booking, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor identity.Actor, id int64) (*BookingView, error)
	ListByDay(ctx context.Context, day booking.Day) ([]*BookingView, error)
	ListByClient(ctx context.Context, clientRef uuid.UUID) ([]*BookingView, error)
	ListByStatus(ctx context.Context, status booking.Status) ([]*BookingView, error)
	DaySchedule(ctx context.Context, day booking.Day) (*DayScheduleView, error)

	// Availability reads used by the booking dialogue.
	FreeSlots(ctx context.Context, day booking.Day) ([]int, error)
	IsAvailable(ctx context.Context, day booking.Day, startHour, duration int) (bool, error)
	FeasibleDurations(ctx context.Context, day booking.Day, startHour int) ([]int, error)
}

type bookingQueriesImpl struct {
	reader BookingReader
	engine schedule.Engine
	policy identity.Policy
	clk    clock.Clock
}

func NewBookingQueries(reader BookingReader, engine schedule.Engine, policy identity.Policy, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{
		reader: reader,
		engine: engine,
		policy: policy,
		clk:    clk,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor identity.Actor, id int64) (*BookingView, error) {
	b, err := q.reader.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// Clients only see their own bookings; a foreign id reads as not found
	// rather than leaking another client's schedule.
	if !q.policy.IsAdmin(actor) && !b.IsOwnedBy(actor.ID) {
		return nil, errs.ErrBookingNotFound
	}

	return ViewFromBooking(b), nil
}

func (q *bookingQueriesImpl) ListByDay(ctx context.Context, day booking.Day) ([]*BookingView, error) {
	bs, err := q.reader.ListByDay(ctx, day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewsFromBookings(bs), nil
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientRef uuid.UUID) ([]*BookingView, error) {
	bs, err := q.reader.ListByClient(ctx, clientRef)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewsFromBookings(bs), nil
}

func (q *bookingQueriesImpl) ListByStatus(ctx context.Context, status booking.Status) ([]*BookingView, error) {
	bs, err := q.reader.ListByStatus(ctx, status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewsFromBookings(bs), nil
}

func (q *bookingQueriesImpl) DaySchedule(ctx context.Context, day booking.Day) (*DayScheduleView, error) {
	bs, err := q.reader.ListByDay(ctx, day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	busySet := q.engine.BusyHours(bs, day)
	busy := make([]int, 0, len(busySet))
	for h := range busySet {
		busy = append(busy, h)
	}
	sort.Ints(busy)

	return &DayScheduleView{
		Date:      day.String(),
		BusyHours: busy,
		FreeSlots: q.engine.FreeSlots(bs, day, q.clk.Now()),
		Bookings:  viewsFromBookings(bs),
	}, nil
}

func (q *bookingQueriesImpl) FreeSlots(ctx context.Context, day booking.Day) ([]int, error) {
	bs, err := q.reader.ListByDay(ctx, day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.engine.FreeSlots(bs, day, q.clk.Now()), nil
}

func (q *bookingQueriesImpl) IsAvailable(ctx context.Context, day booking.Day, startHour, duration int) (bool, error) {
	bs, err := q.reader.ListByDay(ctx, day)
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.engine.IsAvailable(bs, day, startHour, duration), nil
}

func (q *bookingQueriesImpl) FeasibleDurations(ctx context.Context, day booking.Day, startHour int) ([]int, error) {
	bs, err := q.reader.ListByDay(ctx, day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.engine.FeasibleDurations(bs, day, startHour), nil
}

func ViewFromBooking(b *booking.Booking) *BookingView {
	return &BookingView{
		ID:             b.ID(),
		ClientRef:      b.ClientRef(),
		DisplayName:    b.DisplayName(),
		ContactInfo:    b.ContactInfo(),
		Date:           b.Day().String(),
		StartHour:      b.StartHour(),
		DurationHours:  b.DurationHours(),
		Status:         b.Status().String(),
		CreatedAt:      b.CreatedAt(),
		CreatedByAdmin: b.CreatedByAdmin(),
	}
}

func viewsFromBookings(bs []booking.Booking) []*BookingView {
	views := make([]*BookingView, len(bs))
	for i := range bs {
		views[i] = ViewFromBooking(&bs[i])
	}
	return views
}
