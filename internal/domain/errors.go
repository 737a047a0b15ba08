package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidQuantity       ErrorCode = "INVALID_QUANTITY"
	CodeInvalidInput          ErrorCode = "INVALID_INPUT"
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodeInsufficientInventory ErrorCode = "INSUFFICIENT_INVENTORY"
	CodeInvalidState          ErrorCode = "INVALID_STATE"
	CodeConcurrencyConflict   ErrorCode = "CONCURRENCY_CONFLICT"
	CodeCapacityExceeded      ErrorCode = "CAPACITY_EXCEEDED"
)

// Error is the typed result every core operation fails with. Two errors are
// considered equal by errors.Is when their codes match, so callers can test
// against the sentinels below regardless of the message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidQuantity       = &Error{Code: CodeInvalidQuantity, Message: "seat count must be a positive integer"}
	ErrInvalidInput          = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrNotFound              = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInsufficientInventory = &Error{Code: CodeInsufficientInventory, Message: "not enough seats available"}
	ErrInvalidState          = &Error{Code: CodeInvalidState, Message: "this booking cannot be cancelled"}
	ErrConcurrencyConflict   = &Error{Code: CodeConcurrencyConflict, Message: "the request conflicted with another update, please retry"}
	ErrCapacityExceeded      = &Error{Code: CodeCapacityExceeded, Message: "release would exceed the option's seat capacity"}
)

func InvalidQuantity(count int) *Error {
	return &Error{Code: CodeInvalidQuantity, Message: fmt.Sprintf("seat count must be a positive integer, got %d", count)}
}

func InvalidInput(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

func NotFound(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

func InsufficientInventory(id string, requested, available int) *Error {
	return &Error{
		Code:    CodeInsufficientInventory,
		Message: fmt.Sprintf("travel option %s has %d seats available, %d requested", id, available, requested),
	}
}

func InvalidState(bookingID string, status BookingStatus) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("booking %s is %s and cannot be cancelled", bookingID, status),
	}
}

func ConcurrencyConflict(err error) *Error {
	return &Error{Code: CodeConcurrencyConflict, Message: ErrConcurrencyConflict.Message, Err: err}
}

func CapacityExceeded(id string, count, total int) *Error {
	return &Error{
		Code:    CodeCapacityExceeded,
		Message: fmt.Sprintf("releasing %d seats on travel option %s would exceed its capacity of %d", count, id, total),
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
