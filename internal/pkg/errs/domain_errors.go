package errs

import "errors"

// Domain-specific sentinel errors for the usecase layers
var (
	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrOutsideHours    = errors.New("outside business hours")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrAlreadyResolved = errors.New("booking already resolved")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Date errors
	ErrDateInPast = errors.New("date in the past")
	ErrDateTooFar = errors.New("date too far ahead")

	// Authorization errors
	ErrNotAdmin = errors.New("administrator role required")
	ErrNotOwner = errors.New("booking belongs to another client")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
