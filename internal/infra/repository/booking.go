package repository

import (
	"context"
	"errors"
	"time"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, client_ref, display_name, contact_info, day, start_hour, duration_hours, status, created_at, created_by_admin`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (int64, error) {
	const q = `
		INSERT INTO bookings (client_ref, display_name, contact_info, day, start_hour, duration_hours, status, created_at, created_by_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, q,
		uuidPtrToPg(b.ClientRef()),
		b.DisplayName(),
		b.ContactInfo(),
		dayToPg(b.Day()),
		b.StartHour(),
		b.DurationHours(),
		string(b.Status()),
		b.CreatedAt(),
		b.CreatedByAdmin(),
	).Scan(&id)
	if err != nil {
		if isOverlapViolation(err) {
			return 0, infra.WrapRepoErr("booking overlaps an occupied slot", err, infra.KindConflict)
		}
		return 0, infra.WrapRepoErr("failed to insert booking", err)
	}
	return id, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to fetch booking", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status booking.Status) error {
	const q = `UPDATE bookings SET status = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, id, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) ListByDay(ctx context.Context, day booking.Day) ([]booking.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE day = $1 ORDER BY id`
	return r.list(ctx, q, dayToPg(day))
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientRef uuid.UUID) ([]booking.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE client_ref = $1 ORDER BY id`
	return r.list(ctx, q, pgtype.UUID{Bytes: clientRef, Valid: true})
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status booking.Status) ([]booking.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY id`
	return r.list(ctx, q, string(status))
}

func (r *BookingRepository) list(ctx context.Context, q string, args ...any) ([]booking.Booking, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id             int64
		clientRef      pgtype.UUID
		displayName    string
		contactInfo    string
		day            pgtype.Date
		startHour      int
		durationHours  int
		status         string
		createdAt      pgtype.Timestamptz
		createdByAdmin bool
	)
	err := row.Scan(&id, &clientRef, &displayName, &contactInfo, &day, &startHour, &durationHours, &status, &createdAt, &createdByAdmin)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		id,
		pgToUUIDPtr(clientRef),
		displayName,
		contactInfo,
		booking.DayOf(day.Time),
		startHour,
		durationHours,
		booking.Status(status),
		createdAt.Time,
		createdByAdmin,
	), nil
}

// isOverlapViolation matches the exclusion constraint guarding double bookings
// (and unique violations, should the schema ever gain one on the slot).
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23P01" || pgErr.Code == "23505"
}

func uuidPtrToPg(u *uuid.UUID) pgtype.UUID {
	if u == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *u, Valid: true}
}

func pgToUUIDPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func dayToPg(d booking.Day) pgtype.Date {
	return pgtype.Date{Time: d.At(0, time.UTC), Valid: true}
}
