//go:build unit

package reminder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fireRecorder collects fired events and answers keepGoing per call.
type fireRecorder struct {
	mu        sync.Mutex
	events    []reminder.Event
	keepGoing bool
}

func (r *fireRecorder) fire(_ context.Context, ev reminder.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.keepGoing
}

func (r *fireRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *fireRecorder) last() (reminder.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return reminder.Event{}, false
	}
	return r.events[len(r.events)-1], true
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestScheduler_NagRepeatsWhilePending(t *testing.T) {
	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clock.NewRealClock(), 10*time.Millisecond, rec.fire)
	defer s.Stop()

	s.ArmNag(1)
	waitFor(t, func() bool { return rec.count() >= 3 })

	ev, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, int64(1), ev.BookingID)
	assert.Equal(t, reminder.KindAdminNag, ev.Kind)
	assert.Equal(t, []reminder.Kind{reminder.KindAdminNag}, s.ActiveKinds(1))
}

func TestScheduler_NagSelfCancelsOnFalse(t *testing.T) {
	rec := &fireRecorder{keepGoing: false}
	s := reminder.New(clock.NewRealClock(), 10*time.Millisecond, rec.fire)
	defer s.Stop()

	s.ArmNag(1)
	waitFor(t, func() bool { return rec.count() == 1 })
	waitFor(t, func() bool { return len(s.ActiveKinds(1)) == 0 })

	// No further fires after the self-cancel.
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestScheduler_CancelNagStopsFiring(t *testing.T) {
	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clock.NewRealClock(), 30*time.Millisecond, rec.fire)
	defer s.Stop()

	s.ArmNag(1)
	s.CancelNag(1)

	time.Sleep(90 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
	assert.Empty(t, s.ActiveKinds(1))
}

func TestScheduler_RearmReplacesRunningNag(t *testing.T) {
	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clock.NewRealClock(), 10*time.Millisecond, rec.fire)
	defer s.Stop()

	s.ArmNag(1)
	s.ArmNag(1)
	waitFor(t, func() bool { return rec.count() >= 2 })

	// Exactly one timer runs: after cancel, nothing fires again.
	s.CancelNag(1)
	n := rec.count()
	time.Sleep(40 * time.Millisecond)
	assert.LessOrEqual(t, rec.count(), n+1, "at most one in-flight fire after cancel")
	assert.Empty(t, s.ActiveKinds(1))
}

func TestScheduler_ClientRemindersFireOnce(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(base)

	rec := &fireRecorder{}
	s := reminder.New(clk, time.Minute, rec.fire)
	defer s.Stop()

	// Session just over 24h ahead: both offsets are in the future, and the
	// scaled-down delays stay in millisecond range for the test.
	s.ArmClientReminders(7, base.Add(24*time.Hour+50*time.Millisecond))

	assert.ElementsMatch(t,
		[]reminder.Kind{reminder.KindClient24h, reminder.KindClient2h},
		s.ActiveKinds(7),
	)

	waitFor(t, func() bool { return rec.count() >= 1 })
	ev, _ := rec.last()
	assert.Equal(t, reminder.KindClient24h, ev.Kind)
	assert.Equal(t, int64(7), ev.BookingID)

	waitFor(t, func() bool {
		kinds := s.ActiveKinds(7)
		return len(kinds) == 1 && kinds[0] == reminder.KindClient2h
	})
}

func TestScheduler_PastOffsetsAreSkipped(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(base)

	rec := &fireRecorder{}
	s := reminder.New(clk, time.Minute, rec.fire)
	defer s.Stop()

	t.Run("inside 2h window arms nothing", func(t *testing.T) {
		s.ArmClientReminders(1, base.Add(time.Hour))
		assert.Empty(t, s.ActiveKinds(1))
	})

	t.Run("inside 24h window arms only the 2h reminder", func(t *testing.T) {
		s.ArmClientReminders(2, base.Add(12*time.Hour))
		assert.Equal(t, []reminder.Kind{reminder.KindClient2h}, s.ActiveKinds(2))
	})

	t.Run("session in the past arms nothing", func(t *testing.T) {
		s.ArmClientReminders(3, base.Add(-time.Hour))
		assert.Empty(t, s.ActiveKinds(3))
	})
}

func TestScheduler_CancelAll(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(base)

	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clk, time.Hour, rec.fire)
	defer s.Stop()

	s.ArmNag(5)
	s.ArmClientReminders(5, base.Add(48*time.Hour))
	require.Len(t, s.ActiveKinds(5), 3)

	s.CancelAll(5)
	assert.Empty(t, s.ActiveKinds(5))
	assert.Equal(t, 0, rec.count())
}

func TestScheduler_StopDrainsAndRejectsNewTasks(t *testing.T) {
	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clock.NewRealClock(), 5*time.Millisecond, rec.fire)

	s.ArmNag(1)
	s.ArmNag(2)
	s.Stop()

	assert.Empty(t, s.ActiveKinds(1))
	assert.Empty(t, s.ActiveKinds(2))

	s.ArmNag(3)
	assert.Empty(t, s.ActiveKinds(3), "a stopped scheduler accepts no tasks")
}

func TestScheduler_IndependentBookings(t *testing.T) {
	rec := &fireRecorder{keepGoing: true}
	s := reminder.New(clock.NewRealClock(), time.Hour, rec.fire)
	defer s.Stop()

	s.ArmNag(1)
	s.ArmNag(2)
	s.CancelNag(1)

	assert.Empty(t, s.ActiveKinds(1))
	assert.Equal(t, []reminder.Kind{reminder.KindAdminNag}, s.ActiveKinds(2))
}
