//go:build unit

package memstore_test

import (
	"context"
	"testing"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/infra"
	"studio-scheduler/internal/infra/memstore"
	"studio-scheduler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStore_CreateAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewBookingStore()

	id1, err := store.Create(ctx, builder.NewBookingBuilder().Build())
	require.NoError(t, err)
	id2, err := store.Create(ctx, builder.NewBookingBuilder().Build())
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestBookingStore_FindByID(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewBookingStore()

	id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
	require.NoError(t, err)

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, "Test Client", got.DisplayName())

	_, err = store.FindByID(ctx, 999)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestBookingStore_FindByIDReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewBookingStore()

	id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
	require.NoError(t, err)

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	require.NoError(t, got.Confirm())

	// Mutating the returned entity must not write through to the store.
	again, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, again.Status())
}

func TestBookingStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewBookingStore()

	id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, id, booking.StatusConfirmed))

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, got.Status())

	err = store.UpdateStatus(ctx, 999, booking.StatusConfirmed)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestBookingStore_Lists(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewBookingStore()

	ref := uuid.New()
	day := booking.NewDay(2025, 6, 15)

	mine := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ClientRef = &ref
		b.Day = day
	}).Build()
	other := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.Day = day.AddDays(1)
		b.Status = booking.StatusConfirmed
	}).Build()

	_, err := store.Create(ctx, mine)
	require.NoError(t, err)
	_, err = store.Create(ctx, other)
	require.NoError(t, err)

	byDay, err := store.ListByDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.True(t, byDay[0].IsOwnedBy(ref))

	byClient, err := store.ListByClient(ctx, ref)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	pending, err := store.ListByStatus(ctx, booking.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsOwnedBy(ref))

	confirmed, err := store.ListByStatus(ctx, booking.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)

	empty, err := store.ListByDay(ctx, day.AddDays(7))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
