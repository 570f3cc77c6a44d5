package report

import (
	"fmt"

	"github.com/desertwitch/atimes/internal/schema"
	"github.com/dustin/go-humanize"
)

// Summary condenses a finished traversal into a single human-readable line,
// including the disk usage of the filesystem holding the scanned root.
func (r *Handler) Summary(root string, entries []*schema.Entry) (string, error) {
	var files, dirs int
	var bytes uint64

	for _, e := range entries {
		if e.IsDir() {
			dirs++

			continue
		}

		files++
		if e.Metadata.Size > 0 {
			bytes += uint64(e.Metadata.Size)
		}
	}

	stats, err := r.fsOps.DiskUsage(root)
	if err != nil {
		return "", fmt.Errorf("(report-summary) failed to get disk usage: %w", err)
	}

	summary := fmt.Sprintf("%d files (%s) in %d directories; %s of %s free on filesystem",
		files,
		humanize.Bytes(bytes),
		dirs,
		humanize.Bytes(stats.FreeSpace),
		humanize.Bytes(stats.TotalSize),
	)

	return summary, nil
}
