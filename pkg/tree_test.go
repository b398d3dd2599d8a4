package dupetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeTarget_RelativeToWorkingDir(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "a.txt"), []byte("a"))
	writeFile(t, filepath.Join(wd, "target", "sub", "b.txt"), []byte("b"))

	targets := MaterializeTarget(filepath.Join(wd, "target"), wd, nil)

	assert.Equal(t, []string{
		"target",
		filepath.Join("target", "a.txt"),
		filepath.Join("target", "sub"),
		filepath.Join("target", "sub", "b.txt"),
	}, targets.Paths())
	assert.Equal(t, TargetContext, targets.Context(filepath.Join("target", "a.txt")))
}

func TestMaterializeTarget_MissingRootIsEmpty(t *testing.T) {
	wd := canonicalTempDir(t)
	targets := MaterializeTarget(filepath.Join(wd, "missing"), wd, nil)
	assert.Equal(t, 0, targets.Len())
}

func TestMaterializeContext_ExcludesTargetTree(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "a.txt"), []byte("x"))
	writeFile(t, filepath.Join(wd, "other", "a.txt"), []byte("x"))

	targets := MaterializeTarget(filepath.Join(wd, "target"), wd, nil)
	context := MaterializeContext(wd, targets, wd, nil)

	assert.Contains(t, context, filepath.Join("other", "a.txt"))
	assert.NotContains(t, context, filepath.Join("target", "a.txt"))
	assert.NotContains(t, context, "target")
}

func TestMaterializeContext_MissingRootIsEmpty(t *testing.T) {
	wd := canonicalTempDir(t)
	context := MaterializeContext(filepath.Join(wd, "missing"), NewPathSet(), wd, nil)
	assert.Empty(t, context)
}

func TestMaterializeContext_SymlinkIntoTargetIsExcluded(t *testing.T) {
	wd := canonicalTempDir(t)
	real := writeFile(t, filepath.Join(wd, "target", "a.txt"), []byte("x"))
	require.NoError(t, os.MkdirAll(filepath.Join(wd, "ctx"), 0755))
	require.NoError(t, os.Symlink(real, filepath.Join(wd, "ctx", "link.txt")))

	targets := MaterializeTarget(filepath.Join(wd, "target"), wd, nil)
	context := MaterializeContext(filepath.Join(wd, "ctx"), targets, wd, nil)

	assert.Equal(t, []string{"ctx"}, context)
}

func TestMaterializeContext_CanonicalPathListedOnce(t *testing.T) {
	wd := canonicalTempDir(t)
	real := writeFile(t, filepath.Join(wd, "ctx", "real.txt"), []byte("x"))
	require.NoError(t, os.Symlink(real, filepath.Join(wd, "ctx", "alias.txt")))

	context := MaterializeContext(filepath.Join(wd, "ctx"), NewPathSet(), wd, nil)

	assert.Equal(t, []string{"ctx", filepath.Join("ctx", "real.txt")}, context)
}

func TestMaterializeContext_BrokenSymlinkSkipped(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "ctx", "ok.txt"), []byte("x"))
	require.NoError(t, os.Symlink(filepath.Join(wd, "nowhere"), filepath.Join(wd, "ctx", "broken")))

	context := MaterializeContext(filepath.Join(wd, "ctx"), NewPathSet(), wd, nil)

	assert.Equal(t, []string{"ctx", filepath.Join("ctx", "ok.txt")}, context)
}

func TestMaterializeContext_OutsideWorkingDir(t *testing.T) {
	wd := canonicalTempDir(t)
	elsewhere := canonicalTempDir(t)
	writeFile(t, filepath.Join(elsewhere, "f.txt"), []byte("x"))

	context := MaterializeContext(elsewhere, NewPathSet(), wd, nil)

	require.Len(t, context, 2)
	want, err := filepath.Rel(wd, filepath.Join(elsewhere, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, want, context[1])
}

func TestMaterializeContext_IgnorePatterns(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "ctx", "keep.txt"), []byte("x"))
	writeFile(t, filepath.Join(wd, "ctx", ".git", "objects", "blob"), []byte("x"))
	writeFile(t, filepath.Join(wd, "ctx", "sub", "scratch.tmp"), []byte("x"))
	writeFile(t, filepath.Join(wd, "ctx", IgnoreFileName), []byte("# local\n**/*.tmp\n"))

	ignore, err := NewIgnoreManager(".git", IgnoreFileName)
	require.NoError(t, err)
	context := MaterializeContext(filepath.Join(wd, "ctx"), NewPathSet(), wd, ignore)

	assert.Equal(t, []string{
		"ctx",
		filepath.Join("ctx", "keep.txt"),
		filepath.Join("ctx", "sub"),
	}, context)
}

func TestCheckTarget(t *testing.T) {
	wd := canonicalTempDir(t)
	file := writeFile(t, filepath.Join(wd, "f"), []byte("x"))

	assert.NoError(t, CheckTarget(wd))
	assert.NoError(t, CheckTarget(file))
	assert.ErrorIs(t, CheckTarget(filepath.Join(wd, "missing")), ErrTargetNotFound)
}

func TestMaterializeContext_IgnoredTargetEntriesStayExcluded(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "t", "a.txt"), []byte("same"))
	writeFile(t, filepath.Join(wd, "t", "a.bak"), []byte("same"))
	writeFile(t, filepath.Join(wd, "t", IgnoreFileName), []byte("*.bak\n"))
	writeFile(t, filepath.Join(wd, "t", ".cache", "blob"), []byte("same"))
	writeFile(t, filepath.Join(wd, "other.txt"), []byte("same"))

	ignore, err := NewIgnoreManager(".cache")
	require.NoError(t, err)
	targets := MaterializeTarget(filepath.Join(wd, "t"), wd, ignore)
	require.False(t, targets.Contains(filepath.Join("t", "a.bak")))

	context := MaterializeContext(wd, targets, wd, nil)

	assert.Equal(t, []string{".", "other.txt"}, context)
}
