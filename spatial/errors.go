// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InputError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrorType classifies invalid input.
type ErrorType int

const (
	// ErrorTypeInvalidArgument a parameter outside of its domain (e.g. k < 1).
	ErrorTypeInvalidArgument ErrorType = iota
	// ErrorTypeEmpty a required collection is empty.
	ErrorTypeEmpty
	// ErrorTypeNonFinite a NaN or infinite coordinate.
	ErrorTypeNonFinite
	// ErrorTypeOutOfRange a latitude or longitude outside WGS84 bounds.
	ErrorTypeOutOfRange
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeEmpty:
		return "empty"
	case ErrorTypeNonFinite:
		return "non-finite"
	case ErrorTypeOutOfRange:
		return "out-of-range"
	default:
		return "invalid-argument"
	}
}

// InputError reports input that the computations refuse to work with, instead of
// letting NaN or Inf leak into rankings.
type InputError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidInput) true for any InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError builds an InputError with a formatted message.
func NewInputError(t ErrorType, format string, args ...any) *InputError {
	return &InputError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err (or anything it wraps) is an InputError.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// InputErrorType returns the type of the first InputError in the chain.
func InputErrorType(err error) (ErrorType, bool) {
	var inErr *InputError
	if errors.As(err, &inErr) {
		return inErr.Type, true
	}

	return 0, false
}
