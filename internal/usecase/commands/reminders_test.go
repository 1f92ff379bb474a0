//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/infra/memstore"
	"studio-scheduler/internal/reminder"
	"studio-scheduler/internal/usecase/commands"
	"studio-scheduler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) (*memstore.BookingStore, *fakeNotifier, reminder.FireFunc) {
	t.Helper()
	store := memstore.NewBookingStore()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, notifier, commands.NewReminderDispatcher(store, notifier, logger)
}

func TestReminderDispatcher_AdminNag(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps nagging while pending", func(t *testing.T) {
		store, notifier, fire := newDispatcher(t)
		id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
		require.NoError(t, err)

		keep := fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindAdminNag})
		assert.True(t, keep)
		assert.Equal(t, []commands.NotifyEvent{commands.EventPendingUnconfirmed}, notifier.admin)
	})

	t.Run("self-cancels once resolved", func(t *testing.T) {
		store, notifier, fire := newDispatcher(t)
		id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
		require.NoError(t, err)
		require.NoError(t, store.UpdateStatus(ctx, id, booking.StatusConfirmed))

		keep := fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindAdminNag})
		assert.False(t, keep, "timer that outlived a cancellation race must drop itself")
		assert.Empty(t, notifier.admin)
	})

	t.Run("unknown booking drops the timer", func(t *testing.T) {
		_, notifier, fire := newDispatcher(t)
		keep := fire(ctx, reminder.Event{BookingID: 123, Kind: reminder.KindAdminNag})
		assert.False(t, keep)
		assert.Empty(t, notifier.admin)
	})
}

func TestReminderDispatcher_ClientReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("fires for confirmed booking", func(t *testing.T) {
		store, notifier, fire := newDispatcher(t)
		ref := uuid.New()
		id, err := store.Create(ctx, builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.ClientRef = &ref
			b.Status = booking.StatusConfirmed
		}).Build())
		require.NoError(t, err)

		fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindClient24h})
		fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindClient2h})

		require.Len(t, notifier.client, 2)
		assert.Equal(t, notifiedClient{ref: ref, event: commands.EventSessionIn24h}, notifier.client[0])
		assert.Equal(t, notifiedClient{ref: ref, event: commands.EventSessionIn2h}, notifier.client[1])
	})

	t.Run("silent when booking was cancelled meanwhile", func(t *testing.T) {
		store, notifier, fire := newDispatcher(t)
		id, err := store.Create(ctx, builder.NewBookingBuilder().Build())
		require.NoError(t, err)
		require.NoError(t, store.UpdateStatus(ctx, id, booking.StatusCancelled))

		fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindClient24h})
		assert.Empty(t, notifier.client)
	})

	t.Run("silent for walk-ins without a client ref", func(t *testing.T) {
		store, notifier, fire := newDispatcher(t)
		id, err := store.Create(ctx, builder.NewBookingBuilder().AsWalkIn().Build())
		require.NoError(t, err)

		fire(ctx, reminder.Event{BookingID: id, Kind: reminder.KindClient2h})
		assert.Empty(t, notifier.client)
	})
}
