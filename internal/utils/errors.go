package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can tell bad input from broken computation.
type ErrorKind string

const (
	// KindParse marks malformed date or time input.
	KindParse ErrorKind = "parse"
	// KindRange marks inputs outside their valid domain.
	KindRange ErrorKind = "range"
	// KindComputation marks oracle failures and arithmetic faults.
	KindComputation ErrorKind = "computation"
)

var (
	// ErrParse matches any AppError of kind KindParse via errors.Is.
	ErrParse = errors.New("parse error")
	// ErrRange matches any AppError of kind KindRange via errors.Is.
	ErrRange = errors.New("range error")
	// ErrComputation matches any AppError of kind KindComputation via errors.Is.
	ErrComputation = errors.New("computation error")
)

// AppError wraps an operation, human-facing message, and underlying error.
type AppError struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *AppError) Is(target error) bool {
	switch e.Kind {
	case KindParse:
		return target == ErrParse
	case KindRange:
		return target == ErrRange
	case KindComputation:
		return target == ErrComputation
	}
	return false
}

// NewAppError constructs an AppError.
func NewAppError(kind ErrorKind, op, msg string, err error) error {
	return &AppError{Kind: kind, Op: op, Msg: msg, Err: err}
}

// NewParseError constructs a KindParse AppError.
func NewParseError(op, msg string, err error) error {
	return NewAppError(KindParse, op, msg, err)
}

// NewRangeError constructs a KindRange AppError.
func NewRangeError(op, msg string, err error) error {
	return NewAppError(KindRange, op, msg, err)
}

// NewComputationError constructs a KindComputation AppError.
func NewComputationError(op, msg string, err error) error {
	return NewAppError(KindComputation, op, msg, err)
}

// KindOf returns the kind of the first AppError in err's chain, defaulting
// to KindComputation for foreign errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindComputation
}
