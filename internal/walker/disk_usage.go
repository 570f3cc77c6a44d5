package walker

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskStats holds disk usage information. It is meant to be passed by value.
type DiskStats struct {
	TotalSize uint64
	FreeSpace uint64
}

// DiskUsage gets the [DiskStats] for the filesystem containing a path.
func (f *Handler) DiskUsage(path string) (DiskStats, error) {
	var stat unix.Statfs_t

	if err := f.unixOps.Statfs(path, &stat); err != nil {
		return DiskStats{}, fmt.Errorf("(walker-diskstats) failed to statfs: %w", err)
	}

	stats := DiskStats{
		TotalSize: stat.Blocks * handleSize(stat.Bsize),
		FreeSpace: stat.Bavail * handleSize(stat.Bsize),
	}

	return stats, nil
}

// handleSize converts a int64 block size to a uint64 block size (with sizes < 0 becoming 0).
func handleSize(size int64) uint64 {
	if size < 0 {
		return 0
	}

	return uint64(size)
}
