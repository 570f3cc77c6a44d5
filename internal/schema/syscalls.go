package schema

import (
	"os"

	"golang.org/x/sys/unix"
)

// OS is an implementation wrapping operating system functions.
type OS struct{}

// ReadDir wraps around [os.ReadDir].
func (*OS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Open wraps around [os.Open].
func (*OS) Open(name string) (*os.File, error) {
	return os.Open(name)
}

// Stat wraps around [os.Stat].
func (*OS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Readlink wraps around [os.Readlink].
func (*OS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

// Unix is an implementation wrapping Unix operating system functions.
type Unix struct{}

// Lstat wraps around [unix.Lstat].
func (*Unix) Lstat(path string, stat *unix.Stat_t) error {
	return unix.Lstat(path, stat)
}

// Statfs wraps around [unix.Statfs].
func (*Unix) Statfs(path string, buf *unix.Statfs_t) error {
	return unix.Statfs(path, buf)
}
