// Package reminder manages the time-triggered tasks tied to a booking's
// lifecycle: the repeating nag that prods the administrator while a request
// stays pending, and the one-shot 24h/2h client reminders armed on confirm.
//
// Fired events carry only (bookingID, kind); the handler looks the booking up
// fresh at fire time, so no timer ever closes over mutable booking state.
package reminder

import (
	"context"
	"sync"
	"time"

	"studio-scheduler/internal/pkg/clock"
)

type Kind string

const (
	KindAdminNag  Kind = "admin_nag"
	KindClient24h Kind = "client_24h"
	KindClient2h  Kind = "client_2h"
)

type Event struct {
	BookingID int64
	Kind      Kind
}

// FireFunc handles a due reminder. For the repeating admin nag the return
// value reports whether the task should stay armed; a false return is the
// authoritative self-cancel when the booking is no longer pending. One-shot
// tasks ignore the return value.
type FireFunc func(ctx context.Context, ev Event) bool

type taskKey struct {
	bookingID int64
	kind      Kind
}

type Scheduler struct {
	clk         clock.Clock
	nagInterval time.Duration
	fire        FireFunc

	mu     sync.Mutex
	tasks  map[taskKey]chan struct{}
	wg     sync.WaitGroup
	closed bool
}

func New(clk clock.Clock, nagInterval time.Duration, fire FireFunc) *Scheduler {
	return &Scheduler{
		clk:         clk,
		nagInterval: nagInterval,
		fire:        fire,
		tasks:       make(map[taskKey]chan struct{}),
	}
}

// ArmNag starts the repeating admin reminder for a pending booking. Re-arming
// replaces any running nag, so at most one nag timer exists per booking.
func (s *Scheduler) ArmNag(bookingID int64) {
	key := taskKey{bookingID: bookingID, kind: KindAdminNag}
	stop := s.register(key)
	if stop == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.nagInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if !s.fire(context.Background(), Event{BookingID: bookingID, Kind: KindAdminNag}) {
					s.remove(key, stop)
					return
				}
			}
		}
	}()
}

func (s *Scheduler) CancelNag(bookingID int64) {
	s.cancel(taskKey{bookingID: bookingID, kind: KindAdminNag})
}

// ArmClientReminders arms the 24h and 2h one-shot reminders relative to the
// session start. A reminder whose fire time has already passed is silently
// skipped; a booking confirmed less than two hours ahead gets none at all.
func (s *Scheduler) ArmClientReminders(bookingID int64, sessionStart time.Time) {
	now := s.clk.Now()
	offsets := []struct {
		kind   Kind
		before time.Duration
	}{
		{kind: KindClient24h, before: 24 * time.Hour},
		{kind: KindClient2h, before: 2 * time.Hour},
	}
	for _, o := range offsets {
		delay := sessionStart.Add(-o.before).Sub(now)
		if delay <= 0 {
			continue
		}
		s.armOneShot(taskKey{bookingID: bookingID, kind: o.kind}, delay)
	}
}

// CancelAll drops every task for the booking. Fire-and-forget: a task already
// in flight may run once more and relies on the handler's status check.
func (s *Scheduler) CancelAll(bookingID int64) {
	for _, kind := range []Kind{KindAdminNag, KindClient24h, KindClient2h} {
		s.cancel(taskKey{bookingID: bookingID, kind: kind})
	}
}

// ActiveKinds lists the kinds currently armed for a booking.
func (s *Scheduler) ActiveKinds(bookingID int64) []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kinds []Kind
	for _, kind := range []Kind{KindAdminNag, KindClient24h, KindClient2h} {
		if _, ok := s.tasks[taskKey{bookingID: bookingID, kind: kind}]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Stop cancels every task and waits for running timer goroutines to drain.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.closed = true
	for key, stop := range s.tasks {
		close(stop)
		delete(s.tasks, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) armOneShot(key taskKey, delay time.Duration) {
	stop := s.register(key)
	if stop == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-stop:
			return
		case <-t.C:
			s.remove(key, stop)
			s.fire(context.Background(), Event{BookingID: key.bookingID, Kind: key.kind})
		}
	}()
}

// register installs a fresh stop channel for key, replacing any running task.
// Returns nil once the scheduler has been stopped.
func (s *Scheduler) register(key taskKey) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if prev, ok := s.tasks[key]; ok {
		close(prev)
	}
	stop := make(chan struct{})
	s.tasks[key] = stop
	return stop
}

// remove clears the task entry, but only if it still belongs to this run;
// a re-armed task must not be wiped by its replaced predecessor.
func (s *Scheduler) remove(key taskKey, stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.tasks[key]; ok && cur == stop {
		delete(s.tasks, key)
	}
}

func (s *Scheduler) cancel(key taskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.tasks[key]; ok {
		close(stop)
		delete(s.tasks, key)
	}
}
