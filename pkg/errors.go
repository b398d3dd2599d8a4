package dupetree

import (
	"errors"
	"fmt"
)

// ErrNotAFile is returned when a fingerprint is requested for something
// other than a regular file.
var ErrNotAFile = errors.New("not a regular file")

// ErrTargetNotFound is returned when the target root cannot be resolved.
var ErrTargetNotFound = errors.New("target not found")

// HashError reports an I/O failure while computing a content hash.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// DeletionError reports a failure to remove a duplicate. It always aborts a removal run.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// IsHashError reports whether err is (or wraps) a HashError
func IsHashError(err error) bool {
	var hashErr *HashError
	return errors.As(err, &hashErr)
}
