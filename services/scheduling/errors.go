package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for scheduling failures.
const (
	CodeInvalidSlot      = "invalidSlot"
	CodeConflict         = "conflict"
	CodeStoreUnavailable = "storeUnavailable"
	CodeNotFound         = "notFound"
)

type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidSlotError(msg string) error {
	return &SchedulingError{Code: CodeInvalidSlot, Message: msg}
}

func NewConflictError(msg string) error {
	return &SchedulingError{Code: CodeConflict, Message: msg}
}

func NewStoreError(msg string) error {
	return &SchedulingError{Code: CodeStoreUnavailable, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &SchedulingError{Code: CodeNotFound, Message: msg}
}

func hasCode(err error, code string) bool {
	var se *SchedulingError
	return errors.As(err, &se) && se.Code == code
}

// IsConflict reports whether the slot was already BUSY at commit time.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// IsInvalidSlot reports whether the request fell outside the horizon or
// time-label enum.
func IsInvalidSlot(err error) bool { return hasCode(err, CodeInvalidSlot) }

// IsStoreUnavailable reports whether the durable store failed.
func IsStoreUnavailable(err error) bool { return hasCode(err, CodeStoreUnavailable) }

// IsNotFound reports whether a cancel targeted a missing or voided booking.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }
