package invoke

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks failures caused by the caller's input: an unknown
// implementation id, a parameter of the wrong type or an out of range value.
// They are reported as 400; anything else is a 500.
var ErrInvalidArgument = errors.New("invalid argument")

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

func (e *argumentError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidArgumentf returns an error matching ErrInvalidArgument whose text is
// the formatted message.
func InvalidArgumentf(format string, a ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, a...)}
}

// IsInvalidArgument reports whether err is a client input error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// PanicError wraps a value recovered from a panicking implementation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
