// Package schedule computes busy and free hours for a day from the current
// set of bookings. All functions are pure: they read the bookings they are
// given and never touch the store or the wall clock themselves.
package schedule

import (
	"time"

	"studio-scheduler/internal/domain/booking"
)

// Hours is the studio's operating window. Sessions may start between Open and
// LastStart and must end by Close.
type Hours struct {
	Open        int
	LastStart   int
	Close       int
	MaxDuration int
}

func DefaultHours() Hours {
	return Hours{Open: 9, LastStart: 21, Close: 22, MaxDuration: 4}
}

func (h Hours) ValidDuration(d int) bool {
	return d >= 1 && d <= h.MaxDuration
}

type Engine struct {
	hours Hours
}

func NewEngine(hours Hours) Engine {
	return Engine{hours: hours}
}

func (e Engine) Hours() Hours {
	return e.hours
}

// BusyHours expands every occupying booking on day into individual hour marks
// and unions them. Pending requests count: an unconfirmed request still holds
// its slot until rejected. Cancelled bookings contribute nothing.
func (e Engine) BusyHours(bookings []booking.Booking, day booking.Day) map[int]struct{} {
	busy := make(map[int]struct{})
	for i := range bookings {
		b := &bookings[i]
		if !b.Day().Equal(day) || !b.Status().Occupies() {
			continue
		}
		for _, h := range b.Hours() {
			busy[h] = struct{}{}
		}
	}
	return busy
}

// FreeSlots lists every hour a new session could start at on day, ascending.
// For the current day slots before the next full hour are gone; for past days
// nothing is free. An empty day yields the full operating window.
func (e Engine) FreeSlots(bookings []booking.Booking, day booking.Day, now time.Time) []int {
	today := booking.DayOf(now)
	if day.Before(today) {
		return nil
	}

	earliest := e.hours.Open
	if day.Equal(today) {
		start := now.Hour()
		if now.Minute() > 0 {
			start++
		}
		if start > earliest {
			earliest = start
		}
	}

	busy := e.BusyHours(bookings, day)
	var free []int
	for h := earliest; h <= e.hours.LastStart; h++ {
		if _, taken := busy[h]; !taken {
			free = append(free, h)
		}
	}
	return free
}

// IsAvailable reports whether a session of duration hours can start at
// startHour on day. Out-of-window and out-of-range probes are false, never an
// error, so the check holds even for candidates the dialogue would not offer.
func (e Engine) IsAvailable(bookings []booking.Booking, day booking.Day, startHour, duration int) bool {
	if !e.hours.ValidDuration(duration) {
		return false
	}
	if startHour < e.hours.Open || startHour > e.hours.LastStart {
		return false
	}
	if startHour+duration > e.hours.Close {
		return false
	}

	busy := e.BusyHours(bookings, day)
	for h := startHour; h < startHour+duration; h++ {
		if _, taken := busy[h]; taken {
			return false
		}
	}
	return true
}

// FeasibleDurations lists the durations a session starting at startHour could
// run for, given the current bookings. The dialogue offers exactly this set.
func (e Engine) FeasibleDurations(bookings []booking.Booking, day booking.Day, startHour int) []int {
	var durations []int
	for d := 1; d <= e.hours.MaxDuration; d++ {
		if e.IsAvailable(bookings, day, startHour, d) {
			durations = append(durations, d)
		}
	}
	return durations
}
