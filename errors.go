package strknn

import (
	"errors"
	"fmt"

	"github.com/hupe1980/strknn/corpus"
	"github.com/hupe1980/strknn/matcher"
)

var (
	// ErrInvalidInput is returned when an argument has the wrong type or is
	// out of range. Use errors.Is to test for it; the concrete error is an
	// *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOption is returned by New for an invalid option value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("engine closed")

	// ErrCapacityExceeded is returned when an upload would exceed WithMaxEntries.
	ErrCapacityExceeded = errors.New("corpus capacity exceeded")

	// ErrNotFound is returned by SearchBuilder.First when nothing matches.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError describes a rejected argument.
//
// It matches ErrInvalidInput with errors.Is. The original underlying error
// (if any) can be accessed via errors.Unwrap.
type InvalidInputError struct {
	Field  string
	Reason string
	cause  error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InvalidInputError) Unwrap() error { return e.cause }

func invalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ise *corpus.InvalidStringError
	if errors.As(err, &ise) {
		return &InvalidInputError{
			Field:  fmt.Sprintf("strings[%d]", ise.Index),
			Reason: ise.Reason,
			cause:  err,
		}
	}
	if errors.Is(err, corpus.ErrCapacityExceeded) {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	if errors.Is(err, matcher.ErrUnknownMode) {
		return &InvalidInputError{Field: "orderSensitive", Reason: "unknown mode", cause: err}
	}
	if errors.Is(err, matcher.ErrUnknownStrategy) {
		return &InvalidInputError{Field: "strategy", Reason: "unknown set strategy", cause: err}
	}

	return err
}
