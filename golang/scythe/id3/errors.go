package id3

import (
	"github.com/pkg/errors"
)

// Error kinds surfaced to callers. Every error returned by this package wraps
// exactly one of them, so errors.Is (or errors.Cause) tells them apart.
var (
	ErrPrecondition      = errors.New("precondition violated")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrNotImplemented    = errors.New("not implemented")
)

func preconditionf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrPrecondition, format, args...)
}

// allocate makes a slice of n elements with the given capacity, turning a
// failed allocation into ErrResourceExhausted instead of crashing the caller.
func allocate[T any](n, capacity int, what string) (buf []T, err error) {
	if n < 0 || capacity < n {
		return nil, errors.Wrapf(ErrResourceExhausted, "invalid size %d/%d for %s", n, capacity, what)
	}
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = errors.Wrapf(ErrResourceExhausted, "allocating %d %s: %v", capacity, what, r)
		}
	}()
	return make([]T, n, capacity), nil
}
