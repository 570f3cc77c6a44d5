package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertwitch/atimes/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// fakeDirEntry is a fake implementation of [os.DirEntry].
type fakeDirEntry struct {
	name string
	dir  bool
}

func (d *fakeDirEntry) Name() string               { return d.name }
func (d *fakeDirEntry) IsDir() bool                { return d.dir }
func (d *fakeDirEntry) Type() fs.FileMode          { return 0 }
func (d *fakeDirEntry) Info() (fs.FileInfo, error) { return nil, errors.New("not implemented") }

// fakeOS is a fake implementation of osProvider.
type fakeOS struct {
	listings map[string][]os.DirEntry
	readErr  error
}

func (f *fakeOS) ReadDir(name string) ([]os.DirEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}

	return f.listings[name], nil
}

func (f *fakeOS) Readlink(name string) (string, error) { return "", errors.New("not a symlink") }

// fakeUnix is a fake implementation of unixProvider.
type fakeUnix struct {
	lstatErr  error
	statfsErr error
}

func (f *fakeUnix) Lstat(path string, stat *unix.Stat_t) error {
	if f.lstatErr != nil {
		return f.lstatErr
	}
	stat.Mode = unix.S_IFREG

	return nil
}

func (f *fakeUnix) Statfs(path string, buf *unix.Statfs_t) error {
	if f.statfsErr != nil {
		return f.statfsErr
	}
	buf.Blocks = 1000
	buf.Bavail = 500
	buf.Bsize = 4096

	return nil
}

func realHandler() *Handler {
	return NewHandler(&schema.OS{}, &schema.Unix{})
}

func paths(entries []*schema.Entry) []string {
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Path)
	}

	return result
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

// TestWalk_NonRecursive verifies that without recursion only the immediate
// files are reported and subdirectory contents stay invisible.
func TestWalk_NonRecursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	writeFile(t, filepath.Join(root, "sub", "b.txt"))

	entries, err := realHandler().Walk(root, false)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{filepath.Join(root, "a.txt")},
		paths(Files(entries)),
	)
	assert.ElementsMatch(t,
		[]string{filepath.Join(root, "a.txt"), filepath.Join(root, "sub")},
		paths(entries),
	)
}

// TestWalk_Recursive verifies that recursion reports all files of the whole
// subtree and tags traversed directories as such.
func TestWalk_Recursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deeper"), 0o755))
	writeFile(t, filepath.Join(root, "sub", "b.txt"))
	writeFile(t, filepath.Join(root, "sub", "deeper", "c.txt"))

	entries, err := realHandler().Walk(root, true)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{
			filepath.Join(root, "a.txt"),
			filepath.Join(root, "sub", "b.txt"),
			filepath.Join(root, "sub", "deeper", "c.txt"),
		},
		paths(Files(entries)),
	)

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Path)
		}
	}
	assert.ElementsMatch(t,
		[]string{filepath.Join(root, "sub"), filepath.Join(root, "sub", "deeper")},
		dirs,
	)
}

// TestWalk_EmptyDir verifies that an empty directory yields no entries and no
// error.
func TestWalk_EmptyDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	for _, recursive := range []bool{false, true} {
		entries, err := realHandler().Walk(root, recursive)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

// TestWalk_NonExistent verifies that a missing root yields an error and never
// a result.
func TestWalk_NonExistent(t *testing.T) {
	t.Parallel()

	entries, err := realHandler().Walk(filepath.Join(t.TempDir(), "does-not-exist"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, entries)
}

// TestWalk_NotADirectory verifies that a root naming a regular file yields an
// error.
func TestWalk_NotADirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))

	entries, err := realHandler().Walk(filepath.Join(root, "a.txt"), false)
	require.Error(t, err)
	assert.Nil(t, entries)
}

// TestWalk_PermissionDenied verifies that an unreadable subdirectory aborts a
// recursive traversal without partial results.
func TestWalk_PermissionDenied(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are not enforced")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	denied := filepath.Join(root, "denied")
	require.NoError(t, os.Mkdir(denied, 0o755))
	writeFile(t, filepath.Join(denied, "hidden.txt"))
	require.NoError(t, os.Chmod(denied, 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(denied, 0o755)
	})

	entries, err := realHandler().Walk(root, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Nil(t, entries)
}

// TestWalk_SpecialFilenames verifies that unusual filenames round-trip
// through traversal unmodified.
func TestWalk_SpecialFilenames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	names := []string{
		"with spaces.txt",
		".hidden",
		"päivä-日本語.txt",
		"odd!@#$%^&()[]{}.txt",
	}
	for _, name := range names {
		writeFile(t, filepath.Join(root, name))
	}

	entries, err := realHandler().Walk(root, false)
	require.NoError(t, err)

	want := make([]string, 0, len(names))
	for _, name := range names {
		want = append(want, filepath.Join(root, name))
	}
	assert.ElementsMatch(t, want, paths(Files(entries)))
}

// TestWalk_SymlinkNotFollowed verifies that symbolic links are reported but
// never descended into.
func TestWalk_SymlinkNotFollowed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	writeFile(t, filepath.Join(target, "inside.txt"))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

	entries, err := realHandler().Walk(root, true)
	require.NoError(t, err)

	var link *schema.Entry
	for _, e := range entries {
		if e.Path == filepath.Join(root, "link") {
			link = e
		}
	}
	require.NotNil(t, link)
	assert.False(t, link.IsDir())
	assert.True(t, link.Metadata.IsSymlink)
	assert.Equal(t, target, link.Metadata.SymlinkTo)

	// The symlinked directory's contents appear exactly once, via the target.
	var insides []string
	for _, e := range paths(entries) {
		if filepath.Base(e) == "inside.txt" {
			insides = append(insides, e)
		}
	}
	assert.Len(t, insides, 1)
}

// TestWalk_TypeQueryFailure verifies that a failing metadata query aborts the
// whole traversal.
func TestWalk_TypeQueryFailure(t *testing.T) {
	t.Parallel()

	osOps := &fakeOS{
		listings: map[string][]os.DirEntry{
			"/root": {&fakeDirEntry{name: "a.txt"}},
		},
	}
	unixOps := &fakeUnix{lstatErr: errors.New("lstat failure")}

	entries, err := NewHandler(osOps, unixOps).Walk("/root", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get metadata")
	assert.Nil(t, entries)
}

// TestWalk_ReadDirFailure verifies that a failing directory listing aborts
// the whole traversal.
func TestWalk_ReadDirFailure(t *testing.T) {
	t.Parallel()

	osOps := &fakeOS{readErr: errors.New("readdir failure")}
	unixOps := &fakeUnix{}

	entries, err := NewHandler(osOps, unixOps).Walk("/root", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
	assert.Nil(t, entries)
}

// TestFiles verifies directory entries are dropped by the file filter.
func TestFiles(t *testing.T) {
	t.Parallel()

	entries := []*schema.Entry{
		{Path: "/a", Metadata: &schema.Metadata{IsDir: false}},
		{Path: "/b", Metadata: &schema.Metadata{IsDir: true}},
		{Path: "/c", Metadata: &schema.Metadata{IsDir: false}},
	}

	assert.ElementsMatch(t, []string{"/a", "/c"}, paths(Files(entries)))
	assert.Empty(t, Files(nil))
}

// TestDiskUsage verifies disk usage retrieval on both the fake and the real
// filesystem.
func TestDiskUsage(t *testing.T) {
	t.Parallel()

	stats, err := NewHandler(&fakeOS{}, &fakeUnix{}).DiskUsage("/root")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000*4096), stats.TotalSize)
	assert.Equal(t, uint64(500*4096), stats.FreeSpace)

	osStats, err := realHandler().DiskUsage(t.TempDir())
	require.NoError(t, err)
	assert.Positive(t, osStats.TotalSize)
}

// TestDiskUsage_Failure verifies a failing statfs surfaces as an error.
func TestDiskUsage_Failure(t *testing.T) {
	t.Parallel()

	_, err := NewHandler(&fakeOS{}, &fakeUnix{statfsErr: errors.New("statfs failure")}).DiskUsage("/root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to statfs")
}
