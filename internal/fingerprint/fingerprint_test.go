package fingerprint

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertwitch/atimes/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestSum verifies that digests depend on content only.
func TestSum(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "identical content")
	writeFile(t, filepath.Join(root, "b.txt"), "identical content")
	writeFile(t, filepath.Join(root, "c.txt"), "different content")

	handler := NewHandler(&schema.OS{})

	sumA, err := handler.Sum(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	sumB, err := handler.Sum(filepath.Join(root, "b.txt"))
	require.NoError(t, err)
	sumC, err := handler.Sum(filepath.Join(root, "c.txt"))
	require.NoError(t, err)

	assert.Len(t, sumA, 64)
	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, sumA, sumC)
}

// TestSum_EmptyFile verifies that an empty file still yields a digest.
func TestSum_EmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty")
	writeFile(t, path, "")

	sum, err := NewHandler(&schema.OS{}).Sum(path)
	require.NoError(t, err)
	assert.Len(t, sum, 64)
}

// TestSum_NotExists verifies that a missing file yields an error.
func TestSum_NotExists(t *testing.T) {
	t.Parallel()

	_, err := NewHandler(&schema.OS{}).Sum(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
