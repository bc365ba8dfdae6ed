package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups for an unknown product id. Update and
// remove deliberately do not return it: an unknown id there is a silent
// no-op.
var ErrNotFound = errors.New("product not found")

// PersistenceError wraps a failed or malformed backend read/write. It is
// surfaced to the caller and never retried: each operation is a single
// all-or-nothing write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
