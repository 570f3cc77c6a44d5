package atime

import "errors"

var (
	// ErrUnsupported is an error that occurs when the underlying platform or
	// filesystem does not record or expose access time metadata.
	ErrUnsupported = errors.New("could not get access time for file")

	// ErrInvalidAccessTime is an error that occurs when a recorded access
	// time cannot be represented as a non-negative count of epoch seconds.
	ErrInvalidAccessTime = errors.New("access time predates the unix epoch")
)
