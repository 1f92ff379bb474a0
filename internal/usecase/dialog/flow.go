// Package dialog drives a client or administrator through the ordered slot
// selection sequence, validating every step against current availability.
// Prompt rendering (keyboards, message text) belongs to the chat layer; the
// controller only emits structured prompts.
package dialog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/errs"
	"studio-scheduler/internal/usecase/queries"
)

type State string

const (
	StateSelectMode     State = "select_mode"
	StateSelectDate     State = "select_date"
	StateSelectTime     State = "select_time"
	StateSelectDuration State = "select_duration"
	StateClientName     State = "client_name"
	StateClientContact  State = "client_contact"
	StateCommitted      State = "committed"
	StateTerminated     State = "terminated"
)

// Reserved inputs. Everything else is interpreted by the current state.
const (
	InputStart   = "start"
	InputBack    = "back"
	InputNearest = "nearest"
	InputManual  = "manual"
)

// Retry codes returned when an input is rejected and the state does not
// advance. The chat layer turns these into re-prompts.
const (
	RetryUnknownChoice  = "unknown_choice"
	RetryInvalidDate    = "invalid_date"
	RetryDateInPast     = "date_in_past"
	RetryDateTooFar     = "date_too_far"
	RetryDateNotOffered = "date_not_offered"
	RetryNoFreeSlots    = "no_free_slots"
	RetrySlotTaken      = "slot_taken"
	RetryNameRequired   = "name_required"
)

type Prompt struct {
	State     State                `json:"state"`
	Retry     string               `json:"retry,omitempty"`
	Dates     []string             `json:"dates,omitempty"`
	Hours     []int                `json:"hours,omitempty"`
	Durations []int                `json:"durations,omitempty"`
	Booking   *queries.BookingView `json:"booking,omitempty"`
}

// Availability is the read side the dialogue validates against. Lists are
// recomputed on every entry into a state, never cached, so concurrent
// bookings by other actors are absorbed between steps.
type Availability interface {
	FreeSlots(ctx context.Context, day booking.Day) ([]int, error)
	IsAvailable(ctx context.Context, day booking.Day, startHour, duration int) (bool, error)
	FeasibleDurations(ctx context.Context, day booking.Day, startHour int) ([]int, error)
}

// Committer is the only side-effecting step of the dialogue.
type Committer interface {
	CreateRequest(ctx context.Context, actor identity.Actor, day booking.Day, startHour, duration int) (*queries.BookingView, error)
	CreateWalkIn(ctx context.Context, actor identity.Actor, day booking.Day, startHour, duration int, clientName, clientContact string) (*queries.BookingView, error)
}

type mode string

const (
	modeNone    mode = ""
	modeNearest mode = "nearest"
	modeManual  mode = "manual"
)

const nearestDays = 7

type session struct {
	// mu serializes steps on one session. Two requests from the same actor
	// can arrive together (a double submit is enough); the manager's lock
	// covers only the session map, not the session itself.
	mu sync.Mutex

	actor      identity.Actor
	adminFlow  bool
	state      State
	mode       mode
	day        booking.Day
	startHour  int
	duration   int
	clientName string
}

type Flow struct {
	avail          Availability
	committer      Committer
	clk            clock.Clock
	maxAdvanceDays int
}

func NewFlow(avail Availability, committer Committer, clk clock.Clock, maxAdvanceDays int) *Flow {
	return &Flow{
		avail:          avail,
		committer:      committer,
		clk:            clk,
		maxAdvanceDays: maxAdvanceDays,
	}
}

func (f *Flow) newSession(actor identity.Actor, adminFlow bool) *session {
	return &session{
		actor:     actor,
		adminFlow: adminFlow,
		state:     StateSelectMode,
	}
}

// advance feeds one input into the session. A nil error with a Retry-carrying
// prompt means the input was rejected and the same state re-prompts; errors
// are reserved for store failures the dialogue cannot recover.
func (f *Flow) advance(ctx context.Context, s *session, input string) (*Prompt, error) {
	input = strings.TrimSpace(input)

	switch s.state {
	case StateSelectMode:
		return f.handleSelectMode(s, input)
	case StateSelectDate:
		return f.handleSelectDate(ctx, s, input)
	case StateSelectTime:
		return f.handleSelectTime(ctx, s, input)
	case StateSelectDuration:
		return f.handleSelectDuration(ctx, s, input)
	case StateClientName:
		return f.handleClientName(ctx, s, input)
	case StateClientContact:
		return f.handleClientContact(ctx, s, input)
	case StateCommitted, StateTerminated:
		// A duplicate request can reach a session its twin just closed; it
		// only learns how the dialogue ended, nothing commits twice.
		return &Prompt{State: s.state}, nil
	default:
		return nil, errs.New("dialogue session in unexpected state " + string(s.state))
	}
}

func (f *Flow) handleSelectMode(s *session, input string) (*Prompt, error) {
	switch input {
	case InputStart:
		// Session opener; re-prompt the mode choice without a retry code.
		return &Prompt{State: StateSelectMode}, nil
	case InputBack:
		s.state = StateTerminated
		return &Prompt{State: StateTerminated}, nil
	case InputNearest:
		s.mode = modeNearest
	case InputManual:
		s.mode = modeManual
	default:
		return &Prompt{State: StateSelectMode, Retry: RetryUnknownChoice}, nil
	}
	s.state = StateSelectDate
	return f.promptSelectDate(s), nil
}

func (f *Flow) handleSelectDate(ctx context.Context, s *session, input string) (*Prompt, error) {
	if input == InputBack {
		s.state = StateSelectMode
		s.mode = modeNone
		return &Prompt{State: StateSelectMode}, nil
	}

	day, err := booking.ParseDay(input)
	if err != nil {
		return f.retrySelectDate(s, RetryInvalidDate), nil
	}

	today := booking.DayOf(f.clk.Now())
	switch s.mode {
	case modeNearest:
		// Offered dates are exactly today plus the next six; anything else
		// means a stale or forged choice.
		if day.Before(today) || today.DaysUntil(day) >= nearestDays {
			return f.retrySelectDate(s, RetryDateNotOffered), nil
		}
	case modeManual:
		if day.Before(today) {
			return f.retrySelectDate(s, RetryDateInPast), nil
		}
		if today.DaysUntil(day) > f.maxAdvanceDays {
			return f.retrySelectDate(s, RetryDateTooFar), nil
		}
	}

	free, err := f.avail.FreeSlots(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return f.retrySelectDate(s, RetryNoFreeSlots), nil
	}

	s.day = day
	s.state = StateSelectTime
	return &Prompt{State: StateSelectTime, Hours: free}, nil
}

func (f *Flow) handleSelectTime(ctx context.Context, s *session, input string) (*Prompt, error) {
	if input == InputBack {
		s.state = StateSelectDate
		return f.promptSelectDate(s), nil
	}

	hour, ok := parseHour(input)
	free, err := f.avail.FreeSlots(ctx, s.day)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Prompt{State: StateSelectTime, Retry: RetryUnknownChoice, Hours: free}, nil
	}
	if !containsInt(free, hour) {
		// The hour was free when offered but is not any more, or the choice
		// was forged; either way the fresh list goes back out.
		return &Prompt{State: StateSelectTime, Retry: RetrySlotTaken, Hours: free}, nil
	}

	s.startHour = hour
	s.state = StateSelectDuration
	durations, err := f.avail.FeasibleDurations(ctx, s.day, s.startHour)
	if err != nil {
		return nil, err
	}
	return &Prompt{State: StateSelectDuration, Durations: durations}, nil
}

func (f *Flow) handleSelectDuration(ctx context.Context, s *session, input string) (*Prompt, error) {
	if input == InputBack {
		s.state = StateSelectTime
		free, err := f.avail.FreeSlots(ctx, s.day)
		if err != nil {
			return nil, err
		}
		return &Prompt{State: StateSelectTime, Hours: free}, nil
	}

	duration, err := strconv.Atoi(input)
	if err != nil {
		return f.retrySelectDuration(ctx, s, RetryUnknownChoice)
	}

	// Second, authoritative availability check: another actor may have taken
	// part of the range since the hour was offered.
	ok, err := f.avail.IsAvailable(ctx, s.day, s.startHour, duration)
	if err != nil {
		return nil, err
	}
	if !ok {
		return f.retrySelectDuration(ctx, s, RetrySlotTaken)
	}

	s.duration = duration
	if s.adminFlow {
		s.state = StateClientName
		return &Prompt{State: StateClientName}, nil
	}
	return f.commitRequest(ctx, s)
}

func (f *Flow) handleClientName(ctx context.Context, s *session, input string) (*Prompt, error) {
	if input == InputBack {
		s.state = StateSelectDuration
		return f.retrySelectDuration(ctx, s, "")
	}
	if input == "" {
		return &Prompt{State: StateClientName, Retry: RetryNameRequired}, nil
	}
	s.clientName = input
	s.state = StateClientContact
	return &Prompt{State: StateClientContact}, nil
}

func (f *Flow) handleClientContact(ctx context.Context, s *session, input string) (*Prompt, error) {
	if input == InputBack {
		s.state = StateClientName
		return &Prompt{State: StateClientName}, nil
	}

	// Third re-check before commit: the two extra dialogue turns are another
	// race window.
	ok, err := f.avail.IsAvailable(ctx, s.day, s.startHour, s.duration)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.state = StateSelectDuration
		return f.retrySelectDuration(ctx, s, RetrySlotTaken)
	}

	view, err := f.committer.CreateWalkIn(ctx, s.actor, s.day, s.startHour, s.duration, s.clientName, input)
	if err != nil {
		if errors.Is(err, errs.ErrSlotUnavailable) {
			s.state = StateSelectDuration
			return f.retrySelectDuration(ctx, s, RetrySlotTaken)
		}
		return nil, err
	}

	s.state = StateCommitted
	return &Prompt{State: StateCommitted, Booking: view}, nil
}

func (f *Flow) commitRequest(ctx context.Context, s *session) (*Prompt, error) {
	view, err := f.committer.CreateRequest(ctx, s.actor, s.day, s.startHour, s.duration)
	if err != nil {
		if errors.Is(err, errs.ErrSlotUnavailable) {
			return f.retrySelectDuration(ctx, s, RetrySlotTaken)
		}
		return nil, err
	}
	s.state = StateCommitted
	return &Prompt{State: StateCommitted, Booking: view}, nil
}

// promptSelectDate rebuilds the date prompt from the clock; the nearest-days
// list is computed fresh on every entry, never cached across turns.
func (f *Flow) promptSelectDate(s *session) *Prompt {
	p := &Prompt{State: StateSelectDate}
	if s.mode == modeNearest {
		today := booking.DayOf(f.clk.Now())
		dates := make([]string, nearestDays)
		for i := range dates {
			dates[i] = today.AddDays(i).String()
		}
		p.Dates = dates
	}
	return p
}

func (f *Flow) retrySelectDate(s *session, retry string) *Prompt {
	p := f.promptSelectDate(s)
	p.Retry = retry
	return p
}

func (f *Flow) retrySelectDuration(ctx context.Context, s *session, retry string) (*Prompt, error) {
	durations, err := f.avail.FeasibleDurations(ctx, s.day, s.startHour)
	if err != nil {
		return nil, err
	}
	return &Prompt{State: StateSelectDuration, Retry: retry, Durations: durations}, nil
}

func parseHour(input string) (int, bool) {
	input = strings.TrimSuffix(input, ":00")
	hour, err := strconv.Atoi(input)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
