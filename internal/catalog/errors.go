package catalog

import (
	"errors"
	"fmt"
)

var (
	// lookup / mutation errors
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// authentication errors
	ErrIncorrectCredential = errors.New("incorrect credential")
	ErrBlocked             = errors.New("account blocked")
)

// PartialCascadeError reports a compound operation whose primary write was
// applied but whose dependent bulk write failed. Until the operation is
// retried the products of the affected category may hold a stale name mirror
// or survive their deleted category. The dependent writes are idempotent, so
// retrying converges to the intended end state.
type PartialCascadeError struct {
	Op    string
	Cause error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("%s: category updated but product cascade failed: %v", e.Op, e.Cause)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Cause
}

// IsPartialCascade reports whether err carries a half-applied cascade.
func IsPartialCascade(err error) bool {
	var pce *PartialCascadeError
	return errors.As(err, &pce)
}
