package walker

import (
	"fmt"

	"github.com/desertwitch/atimes/internal/schema"
	"golang.org/x/sys/unix"
)

// getMetadata captures [schema.Metadata] for a path. The underlying Lstat
// does not follow symbolic links, so a link to a directory is tagged as a
// symlink and never as a directory.
func (f *Handler) getMetadata(path string) (*schema.Metadata, error) {
	var stat unix.Stat_t

	if err := f.unixOps.Lstat(path, &stat); err != nil {
		return nil, fmt.Errorf("failed to lstat: %w", err)
	}

	metadata := &schema.Metadata{
		Inode:      stat.Ino,
		Perms:      (uint32(stat.Mode) & 0777),
		UID:        stat.Uid,
		GID:        stat.Gid,
		AccessedAt: stat.Atim,
		ModifiedAt: stat.Mtim,
		Size:       stat.Size,
		IsDir:      (stat.Mode & unix.S_IFMT) == unix.S_IFDIR,
		IsSymlink:  (stat.Mode & unix.S_IFMT) == unix.S_IFLNK,
	}

	if metadata.IsSymlink {
		symlinkTarget, err := f.osOps.Readlink(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read symlink: %w", err)
		}
		metadata.SymlinkTo = symlinkTarget
	}

	return metadata, nil
}
