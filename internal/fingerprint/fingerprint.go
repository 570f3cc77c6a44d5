// Package fingerprint implements content fingerprinting for reported files.
// It hashes file contents with BLAKE3, so identical stale files can be told
// apart from merely same-sized ones in the report output.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// osProvider defines operating system methods needed for fingerprinting.
type osProvider interface {
	Open(name string) (*os.File, error)
}

// Handler is the principal implementation for content fingerprinting.
type Handler struct {
	osOps osProvider
}

// NewHandler returns a pointer to a new fingerprinting [Handler].
func NewHandler(osOps osProvider) *Handler {
	return &Handler{
		osOps: osOps,
	}
}

// Sum returns the hex-encoded BLAKE3 digest of a file's contents. Reading the
// file refreshes its access time, so callers wanting to report that time must
// resolve it before fingerprinting.
func (h *Handler) Sum(path string) (string, error) {
	file, err := h.osOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(fingerprint) failed to open file: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()

	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("(fingerprint) failed to hash file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
