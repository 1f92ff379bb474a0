package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending       = errors.New("booking is not pending")
	ErrAlreadyTerminal  = errors.New("booking is already cancelled")
	ErrMissingClientRef = errors.New("client booking requires a client reference")
	ErrEmptyDisplayName = errors.New("display name must not be empty")
)

// Booking is a claim on one or more contiguous hour slots of the studio.
// The id is assigned by the store on create and is immutable afterwards,
// as is createdAt. Cancellation is a status transition, never a delete.
type Booking struct {
	id             int64
	clientRef      *uuid.UUID
	displayName    string
	contactInfo    string
	day            Day
	startHour      int
	durationHours  int
	status         Status
	createdAt      time.Time
	createdByAdmin bool
}

// NewRequest creates a client-initiated booking in pending state; the slot is
// held until the administrator confirms or rejects it.
func NewRequest(clientRef uuid.UUID, displayName string, day Day, startHour, durationHours int, now time.Time) (*Booking, error) {
	displayName = strings.TrimSpace(displayName)
	if clientRef == uuid.Nil {
		return nil, ErrMissingClientRef
	}
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	ref := clientRef
	return &Booking{
		clientRef:     &ref,
		displayName:   displayName,
		day:           day,
		startHour:     startHour,
		durationHours: durationHours,
		status:        StatusPending,
		createdAt:     now,
	}, nil
}

// NewWalkIn creates an administrator-entered booking directly in confirmed
// state; the admin vouches for the client, so no approval round-trip happens.
func NewWalkIn(displayName, contactInfo string, day Day, startHour, durationHours int, now time.Time) (*Booking, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	return &Booking{
		displayName:    displayName,
		contactInfo:    strings.TrimSpace(contactInfo),
		day:            day,
		startHour:      startHour,
		durationHours:  durationHours,
		status:         StatusConfirmed,
		createdAt:      now,
		createdByAdmin: true,
	}, nil
}

func Reconstruct(
	id int64,
	clientRef *uuid.UUID,
	displayName, contactInfo string,
	day Day,
	startHour, durationHours int,
	status Status,
	createdAt time.Time,
	createdByAdmin bool,
) *Booking {
	return &Booking{
		id:             id,
		clientRef:      clientRef,
		displayName:    displayName,
		contactInfo:    contactInfo,
		day:            day,
		startHour:      startHour,
		durationHours:  durationHours,
		status:         status,
		createdAt:      createdAt,
		createdByAdmin: createdByAdmin,
	}
}

// WithID returns a copy carrying the store-assigned id.
func (b *Booking) WithID(id int64) *Booking {
	c := *b
	c.id = id
	return &c
}

func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusConfirmed
	return nil
}

func (b *Booking) Reject() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) CancelByClient() error {
	if b.status.IsCancelled() {
		return ErrAlreadyTerminal
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) CancelByAdmin() error {
	if b.status.IsCancelled() {
		return ErrAlreadyTerminal
	}
	b.status = StatusCancelledByAdmin
	return nil
}

// IsOwnedBy reports whether the booking belongs to the given client. Walk-in
// bookings have no client reference and are owned by nobody.
func (b *Booking) IsOwnedBy(clientRef uuid.UUID) bool {
	return b.clientRef != nil && *b.clientRef == clientRef
}

// SessionStart is the wall-clock start of the booked session.
func (b *Booking) SessionStart(loc *time.Location) time.Time {
	return b.day.At(b.startHour, loc)
}

// Hours expands the booking into its individual hour marks.
func (b *Booking) Hours() []int {
	hours := make([]int, b.durationHours)
	for i := range hours {
		hours[i] = b.startHour + i
	}
	return hours
}

func (b *Booking) ID() int64             { return b.id }
func (b *Booking) ClientRef() *uuid.UUID { return b.clientRef }
func (b *Booking) DisplayName() string   { return b.displayName }
func (b *Booking) ContactInfo() string   { return b.contactInfo }
func (b *Booking) Day() Day              { return b.day }
func (b *Booking) StartHour() int        { return b.startHour }
func (b *Booking) DurationHours() int    { return b.durationHours }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) CreatedByAdmin() bool  { return b.createdByAdmin }
