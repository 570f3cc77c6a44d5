// Package atime implements the access time resolution. It queries filesystem
// metadata for a path and reduces the recorded last-access time to whole
// seconds since the Unix epoch.
package atime

import (
	"fmt"
	"os"
	"syscall"
)

// osProvider defines operating system methods needed for resolution.
type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

// Handler is the principal implementation for access time resolution.
type Handler struct {
	osOps osProvider
}

// NewHandler returns a pointer to a new resolution [Handler].
func NewHandler(osOps osProvider) *Handler {
	return &Handler{
		osOps: osOps,
	}
}

// Resolve returns the last-access time of a path as whole seconds since the
// Unix epoch, discarding any sub-second precision. Symbolic links are
// followed, so the access time belongs to the link target.
//
// Failure to stat the path surfaces the underlying I/O error. A platform or
// filesystem that does not expose access times yields [ErrUnsupported]. An
// access time predating the epoch yields [ErrInvalidAccessTime]; it is a
// recoverable error like any other.
func (a *Handler) Resolve(path string) (int64, error) {
	info, err := a.osOps.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("(atime) failed to stat: %w", err)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("(atime) %w: %s", ErrUnsupported, path)
	}

	if stat.Atim.Sec < 0 {
		return 0, fmt.Errorf("(atime) %w: %d", ErrInvalidAccessTime, stat.Atim.Sec)
	}

	return int64(stat.Atim.Sec), nil
}
