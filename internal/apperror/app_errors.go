package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies every recoverable error the engine reports.
type Kind int

const (
	KindOutOfBounds Kind = iota + 1
	KindColumnFull
	KindDeserialization
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "out of bounds"
	case KindColumnFull:
		return "column full"
	case KindDeserialization:
		return "deserialization"
	case KindIO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the closed error type of the engine. Two errors match under
// errors.Is when their kinds are equal.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

var (
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds, Msg: "placement outside of board boundaries"}
	ErrColumnFull      = &Error{Kind: KindColumnFull, Msg: "column is full"}
	ErrDeserialization = &Error{Kind: KindDeserialization, Msg: "malformed saved game"}
	ErrIO              = &Error{Kind: KindIO, Msg: "save storage failure"}
)

func (that *Error) Error() string {
	switch {
	case that.Err == nil:
		return that.Msg
	case that.Msg == "":
		return that.Err.Error()
	default:
		return that.Msg + ": " + that.Err.Error()
	}
}

func (that *Error) Unwrap() error {
	return that.Err
}

func (that *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return that.Kind == other.Kind
}

// Deserialization wraps err as a KindDeserialization error.
func Deserialization(msg string, err error) error {
	return &Error{Kind: KindDeserialization, Msg: msg, Err: err}
}

// IO wraps err as a KindIO error.
func IO(msg string, err error) error {
	return &Error{Kind: KindIO, Msg: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return 0
}
