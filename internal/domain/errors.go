package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the persistence and cache boundaries.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrLockHeld      = errors.New("lock already held")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
)

// ErrorCode is the stable machine-readable classification of a core error.
type ErrorCode string

const (
	// CodeValidation: malformed config or bet input. Recoverable by the
	// caller correcting the input.
	CodeValidation ErrorCode = "validation"

	// CodeInsufficientBalance: the computed stake exceeds the available
	// balance. Causes a session stop, not an unwind.
	CodeInsufficientBalance ErrorCode = "insufficient_balance"

	// CodeStopCondition: stop-loss/stop-win/max-bets/max-duration reached.
	// An expected terminal signal, not a failure.
	CodeStopCondition ErrorCode = "stop_condition"

	// CodeSequenceExhausted: a method-specific completion such as an emptied
	// Labouchere list. A success terminal, distinct from stop-loss.
	CodeSequenceExhausted ErrorCode = "sequence_exhausted"

	// CodeIllegalTransition: an invalid session state transition, e.g.
	// ending an already-ended session.
	CodeIllegalTransition ErrorCode = "illegal_transition"
)

// Error is the typed error returned through the decision path. It carries a
// stable code and a descriptive reason; the outer system turns it into
// user-facing messages.
type Error struct {
	Code   ErrorCode
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// NewValidationError builds a CodeValidation error.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Reason: fmt.Sprintf(format, args...)}
}

// NewInsufficientBalanceError builds a CodeInsufficientBalance error.
func NewInsufficientBalanceError(format string, args ...any) *Error {
	return &Error{Code: CodeInsufficientBalance, Reason: fmt.Sprintf(format, args...)}
}

// NewStopConditionError builds a CodeStopCondition error.
func NewStopConditionError(format string, args ...any) *Error {
	return &Error{Code: CodeStopCondition, Reason: fmt.Sprintf(format, args...)}
}

// NewSequenceExhaustedError builds a CodeSequenceExhausted error.
func NewSequenceExhaustedError(format string, args ...any) *Error {
	return &Error{Code: CodeSequenceExhausted, Reason: fmt.Sprintf(format, args...)}
}

// NewIllegalTransitionError builds a CodeIllegalTransition error.
func NewIllegalTransitionError(format string, args ...any) *Error {
	return &Error{Code: CodeIllegalTransition, Reason: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a typed core
// error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
