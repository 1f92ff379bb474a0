package booking

type Status string

const (
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusCancelled        Status = "cancelled"
	StatusCancelledByAdmin Status = "cancelled_by_admin"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCancelledByAdmin:
		return true
	default:
		return false
	}
}

// Occupies reports whether a booking in this status holds its slot. A pending
// request provisionally blocks the slot until the administrator rejects it.
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelled || s == StatusCancelledByAdmin
}
