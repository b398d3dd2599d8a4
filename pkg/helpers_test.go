package dupetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates path (and its parents) with the given content
func writeFile(t *testing.T, path string, content []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// patterned returns n bytes of a repeating pattern seeded by seed
func patterned(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*31) ^ seed
	}
	return data
}

// canonicalTempDir returns t.TempDir() with symlinks resolved
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := CanonicalDir(t.TempDir())
	require.NoError(t, err)
	return dir
}
