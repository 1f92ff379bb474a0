package booking

import (
	"errors"
	"time"
)

var ErrInvalidDay = errors.New("invalid day")

// dayLayouts: canonical ISO form first, then the manual-entry form clients
// type into the booking dialogue.
var dayLayouts = []string{"2006-01-02", "02.01.2006"}

// Day is a calendar date with no time component, always stored canonically
// (never a relative label such as "today").
type Day struct {
	year  int
	month time.Month
	day   int
}

func NewDay(year int, month time.Month, day int) Day {
	// Normalize through time.Date so out-of-range inputs carry over
	// (Jan 32 -> Feb 1) instead of producing unequal representations.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

func ParseDay(s string) (Day, error) {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, ErrInvalidDay
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// At returns the wall-clock instant of the given hour on this day. The studio
// operates in a single fixed timezone, carried by loc.
func (d Day) At(hour int, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, hour, 0, 0, 0, loc)
}

func (d Day) AddDays(n int) Day {
	return NewDay(d.year, d.month, d.day+n)
}

func (d Day) Equal(other Day) bool {
	return d == other
}

func (d Day) Before(other Day) bool {
	return d.ordinal() < other.ordinal()
}

func (d Day) After(other Day) bool {
	return other.Before(d)
}

// DaysUntil returns how many calendar days ahead other is, negative if behind.
func (d Day) DaysUntil(other Day) int {
	return int((other.ordinal() - d.ordinal()) / 86400)
}

func (d Day) String() string {
	return d.At(0, time.UTC).Format("2006-01-02")
}

func (d Day) ordinal() int64 {
	return d.At(0, time.UTC).Unix()
}
