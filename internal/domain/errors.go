package domain

// Machine-readable error codes. The HTTP adapter maps these onto status codes;
// everything else compares sentinels with errors.Is.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidPartySize   = "INVALID_PARTY_SIZE"
	CodeInvalidDateTime    = "INVALID_DATE_TIME"
	CodeInvalidTimezone    = "INVALID_TIMEZONE"
	CodePastTime           = "PAST_TIME"
	CodeNoAvailableTables  = "NO_AVAILABLE_TABLES"
	CodeConcurrentModified = "CONCURRENT_MODIFICATION"
	CodeLockHeld           = "LOCK_HELD"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a business rejection with a stable code. Orchestrator code returns
// these (usually wrapped) so that transport adapters can translate without
// string matching.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrValidation             = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrInvalidPartySize       = &Error{Code: CodeInvalidPartySize, Message: "party size must be between 1 and 20"}
	ErrInvalidDateTime        = &Error{Code: CodeInvalidDateTime, Message: "invalid date/time value"}
	ErrInvalidTimezone        = &Error{Code: CodeInvalidTimezone, Message: "invalid timezone"}
	ErrPastTime               = &Error{Code: CodePastTime, Message: "start time must be in the future"}
	ErrNoAvailableTables      = &Error{Code: CodeNoAvailableTables, Message: "no available tables"}
	ErrConcurrentModification = &Error{Code: CodeConcurrentModified, Message: "record was modified concurrently"}
	ErrLockHeld               = &Error{Code: CodeLockHeld, Message: "resource lock is held by another owner"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrInvalidTransition      = &Error{Code: CodeInvalidTransition, Message: "invalid status transition"}
)
