package schema

// Entry is a single filesystem entry as observed during a traversal. It
// records the path together with the [Metadata] that was captured at
// observation time, so that callers can decide which entry kinds to keep
// without consulting the filesystem again.
//
// Entries are meant to be passed by reference (pointer) and are not
// thread-safe.
type Entry struct {
	// Path is the path the [Entry] was observed at.
	Path string

	// Metadata is the filesystem [Metadata] for the specific [Entry].
	Metadata *Metadata
}

// IsDir reports whether the [Entry] was a directory at observation time.
func (e *Entry) IsDir() bool {
	return e.Metadata != nil && e.Metadata.IsDir
}
