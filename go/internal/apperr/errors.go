package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap them with the constructors below and test with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")

	// ErrPlayerAlreadyDrafted is a Conflict callers may retry on.
	ErrPlayerAlreadyDrafted = fmt.Errorf("%w: player already drafted", ErrConflict)
)

// Kind is the stable category of an error, for transports to map onto status codes.
type Kind string

const (
	KindUnknown    Kind = "UNKNOWN"
	KindNotFound   Kind = "NOT_FOUND"
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// NotFoundf returns an error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Internalf returns an error wrapping ErrInternal.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// AlreadyDrafted returns an error wrapping ErrPlayerAlreadyDrafted.
func AlreadyDrafted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPlayerAlreadyDrafted, fmt.Sprintf(format, args...))
}

// KindOf classifies err. Errors without a known sentinel in their chain are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInternal):
		return KindInternal
	default:
		return KindUnknown
	}
}
