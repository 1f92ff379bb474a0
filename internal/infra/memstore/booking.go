// Package memstore is the in-process booking store. It backs tests and the
// DB_DRIVER=memory deployment mode; one studio fits comfortably in memory.
package memstore

import (
	"context"
	"sort"
	"sync"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/infra"

	"github.com/google/uuid"
)

type BookingStore struct {
	mu       sync.RWMutex
	bookings map[int64]*booking.Booking
	nextID   int64
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[int64]*booking.Booking),
	}
}

func (s *BookingStore) Create(_ context.Context, b *booking.Booking) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.bookings[id] = b.WithID(id)
	return id, nil
}

func (s *BookingStore) FindByID(_ context.Context, id int64) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return clone(b), nil
}

func (s *BookingStore) UpdateStatus(_ context.Context, id int64, status booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	s.bookings[id] = withStatus(b, status)
	return nil
}

func (s *BookingStore) ListByDay(_ context.Context, day booking.Day) ([]booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.Day().Equal(day)
	}), nil
}

func (s *BookingStore) ListByClient(_ context.Context, clientRef uuid.UUID) ([]booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.IsOwnedBy(clientRef)
	}), nil
}

func (s *BookingStore) ListByStatus(_ context.Context, status booking.Status) ([]booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.Status() == status
	}), nil
}

func (s *BookingStore) list(match func(*booking.Booking) bool) []booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []booking.Booking
	for _, b := range s.bookings {
		if match(b) {
			out = append(out, *clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// clone keeps callers from mutating stored state through entity methods.
func clone(b *booking.Booking) *booking.Booking {
	return withStatus(b, b.Status())
}

func withStatus(b *booking.Booking, status booking.Status) *booking.Booking {
	return booking.Reconstruct(
		b.ID(),
		b.ClientRef(),
		b.DisplayName(),
		b.ContactInfo(),
		b.Day(),
		b.StartHour(),
		b.DurationHours(),
		status,
		b.CreatedAt(),
		b.CreatedByAdmin(),
	)
}
