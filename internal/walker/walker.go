// Package walker implements the directory traversal. It enumerates the
// entries below a root directory, optionally descending into subdirectories,
// and reports every observed entry together with its captured
// [schema.Metadata]. Callers filter the tagged results for the entry kinds
// they want to keep.
package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertwitch/atimes/internal/schema"
	"golang.org/x/sys/unix"
)

// osProvider defines operating system methods needed for traversal.
type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	Readlink(name string) (string, error)
}

// unixProvider defines Unix methods needed for traversal.
type unixProvider interface {
	Lstat(path string, stat *unix.Stat_t) error
	Statfs(path string, buf *unix.Statfs_t) error
}

// Handler is the principal implementation for filesystem traversal.
type Handler struct {
	osOps   osProvider
	unixOps unixProvider
}

// NewHandler returns a pointer to a new traversal [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider) *Handler {
	return &Handler{
		osOps:   osOps,
		unixOps: unixOps,
	}
}

// Walk enumerates the filesystem entries below a root directory and returns
// them as tagged [schema.Entry] observations, files and directories alike.
// With recursive set, subdirectories are descended into; symbolic links are
// never followed. Traversal is driven by an explicit work list rather than
// call-stack recursion, so arbitrarily deep trees cannot exhaust the stack.
//
// The first failure at any level aborts the whole call and no partial results
// are returned. An empty directory yields an empty slice and no error. No
// ordering is guaranteed across the returned entries.
func (f *Handler) Walk(root string, recursive bool) ([]*schema.Entry, error) {
	var entries []*schema.Entry

	pending := []string{root}

	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		listing, err := f.osOps.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("(walker) failed to read directory: %w", err)
		}

		for _, d := range listing {
			path := filepath.Join(dir, d.Name())

			metadata, err := f.getMetadata(path)
			if err != nil {
				return nil, fmt.Errorf("(walker) failed to get metadata: %w", err)
			}

			if metadata.IsDir && recursive {
				pending = append(pending, path)
			}

			entries = append(entries, &schema.Entry{
				Path:     path,
				Metadata: metadata,
			})
		}
	}

	return entries, nil
}

// Files filters tagged traversal output down to the entries that were not
// directories at observation time. This enforces the file-only contract for
// consumers that report on regular files.
func Files(entries []*schema.Entry) []*schema.Entry {
	var files []*schema.Entry

	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e)
		}
	}

	return files
}
