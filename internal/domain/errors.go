package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP codes; services wrap them with
// detail via the helpers below.
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalid    = errors.New("invalid input")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("state conflict")
	ErrDependency = errors.New("dependency failure")
)

// Error carries a kind, a human-readable detail, and optionally the
// enumerated valid values for the offending field.
type Error struct {
	Kind   error
	Detail string
	Valid  []string
}

func (e *Error) Error() string { return e.Detail }
func (e *Error) Unwrap() error { return e.Kind }

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Detail: fmt.Sprintf(format, args...)}
}

// InvalidValues is Invalidf plus the list of accepted values.
func InvalidValues(valid []string, format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Detail: fmt.Sprintf(format, args...), Valid: valid}
}

func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Detail: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

// ValidValues extracts the enumerated valid set from err, if any.
func ValidValues(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Valid
	}
	return nil
}
