// Package report implements the rendering of traversal results. It resolves
// the access time for every reported file and writes one line per file to the
// configured output, optionally annotated with a relative age and a content
// fingerprint, and optionally restricted to files that have gone stale.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/desertwitch/atimes/internal/scan"
	"github.com/desertwitch/atimes/internal/schema"
	"github.com/desertwitch/atimes/internal/walker"
	"github.com/dustin/go-humanize"
)

// atimeProvider defines access time resolution methods needed for reporting.
type atimeProvider interface {
	Resolve(path string) (int64, error)
}

// osProvider defines operating system methods needed for reporting.
type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

// fingerprintProvider defines content hashing methods needed for reporting.
type fingerprintProvider interface {
	Sum(path string) (string, error)
}

// fsProvider defines filesystem methods needed for the report summary.
type fsProvider interface {
	DiskUsage(path string) (walker.DiskStats, error)
}

// Options holds the rendering options for a [Handler].
type Options struct {
	// ShowAge appends a humanized relative age to every reported line.
	ShowAge bool

	// StaleAfter, when positive, restricts the report to files whose last
	// access lies further back than the given duration.
	StaleAfter time.Duration

	// Fingerprint appends a BLAKE3 content digest to every reported line.
	// Hashing reads the file and refreshes its access time; the reported
	// timestamp is always taken before hashing.
	Fingerprint bool
}

// Handler is the principal implementation for report rendering.
type Handler struct {
	atimeOps       atimeProvider
	fingerprintOps fingerprintProvider
	fsOps          fsProvider
	osOps          osProvider
	tracker        *scan.Tracker
	writer         io.Writer
	opts           Options
}

// NewHandler returns a pointer to a new report [Handler].
func NewHandler(atimeOps atimeProvider, fingerprintOps fingerprintProvider, fsOps fsProvider,
	osOps osProvider, tracker *scan.Tracker, writer io.Writer, opts Options,
) *Handler {
	return &Handler{
		atimeOps:       atimeOps,
		fingerprintOps: fingerprintOps,
		fsOps:          fsOps,
		osOps:          osOps,
		tracker:        tracker,
		writer:         writer,
		opts:           opts,
	}
}

// Emit resolves and writes one report line per given file entry, in the order
// the entries were produced. Every entry is re-checked at report time with a
// link-following stat; anything that is not a regular file by then (a symlink
// to a directory, a dangling symlink, an entry that vanished mid-scan) is
// skipped. The first failure of either resolution or rendering aborts the
// whole report, as does cancellation of the context; no further entries are
// processed after a failure.
func (r *Handler) Emit(ctx context.Context, files []*schema.Entry) error {
	r.tracker.Begin(len(files))
	defer r.tracker.Finish()

	now := time.Now()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("(report) aborted: %w", err)
		}

		if info, err := r.osOps.Stat(file.Path); err != nil || !info.Mode().IsRegular() {
			r.tracker.MarkProcessed(false, 0)

			continue
		}

		seconds, err := r.atimeOps.Resolve(file.Path)
		if err != nil {
			return fmt.Errorf("(report) failed to resolve: %w", err)
		}

		accessedAt := time.Unix(seconds, 0).UTC()

		stale := r.opts.StaleAfter > 0 && accessedAt.Before(now.Add(-r.opts.StaleAfter))
		r.tracker.MarkProcessed(stale, file.Metadata.Size)

		if r.opts.StaleAfter > 0 && !stale {
			continue
		}

		line := fmt.Sprintf("%s - %s", file.Path, accessedAt.Format(time.RFC3339))

		if r.opts.ShowAge {
			line += fmt.Sprintf(" (%s)", humanize.Time(accessedAt))
		}

		if r.opts.Fingerprint {
			sum, err := r.fingerprintOps.Sum(file.Path)
			if err != nil {
				return fmt.Errorf("(report) failed to fingerprint: %w", err)
			}
			line += " " + sum
		}

		if _, err := fmt.Fprintln(r.writer, line); err != nil {
			return fmt.Errorf("(report) failed to write: %w", err)
		}
	}

	return nil
}
