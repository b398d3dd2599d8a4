package dupetree

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter collects removal events
type recordingReporter struct {
	deleted []string
	kept    [][2]string
}

func (r *recordingReporter) Deleted(path string) error {
	r.deleted = append(r.deleted, path)
	return nil
}

func (r *recordingReporter) Kept(original, duplicate string) error {
	r.kept = append(r.kept, [2]string{original, duplicate})
	return nil
}

func TestRemoveDuplicates_DeletesAndReports(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "B"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "C"), []byte("different"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	reporter := &recordingReporter{}
	result, err := RemoveDuplicates(targets, context, RemoveOptions{}, reporter)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, int64(7), result.BytesReclaimed)
	assert.Equal(t, []string{filepath.Join("ctx", "B")}, reporter.deleted)

	assert.NoFileExists(t, filepath.Join(wd, "ctx", "B"))
	assert.FileExists(t, filepath.Join(wd, "ctx", "C"))
	assert.FileExists(t, filepath.Join(wd, "target", "A"))

	// nothing left in the context matches the target
	targets, context = prepareTrees(t, wd, "target", "ctx")
	groups, err := FindDuplicates(targets, context, MatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRemoveDuplicates_CountMatchesListing(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("aaa"))
	writeFile(t, filepath.Join(wd, "target", "B"), []byte("bbbb"))
	writeFile(t, filepath.Join(wd, "ctx", "1"), []byte("aaa"))
	writeFile(t, filepath.Join(wd, "ctx", "2"), []byte("aaa"))
	writeFile(t, filepath.Join(wd, "ctx", "x", "3"), []byte("bbbb"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	groups, err := FindDuplicates(targets, context, MatchOptions{})
	require.NoError(t, err)
	listed := 0
	for _, group := range groups {
		listed += len(group.Duplicates)
	}

	targets, context = prepareTrees(t, wd, "target", "ctx")
	reporter := &recordingReporter{}
	result, err := RemoveDuplicates(targets, context, RemoveOptions{}, reporter)
	require.NoError(t, err)

	assert.Equal(t, 3, listed)
	assert.Equal(t, listed, result.Deleted)
	assert.Len(t, reporter.deleted, listed)
}

func TestRemoveDuplicates_SilentDeletesWithoutReporting(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "B"), []byte("payload"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	reporter := &recordingReporter{}
	result, err := RemoveDuplicates(targets, context, RemoveOptions{Silent: true}, reporter)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, reporter.deleted)
	assert.NoFileExists(t, filepath.Join(wd, "ctx", "B"))
}

func TestRemoveDuplicates_DebugKeepsEverything(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "B"), []byte("payload"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	reporter := &recordingReporter{}
	result, err := RemoveDuplicates(targets, context, RemoveOptions{Debug: true}, reporter)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 1, result.Kept)
	assert.Equal(t, [][2]string{{filepath.Join("target", "A"), filepath.Join("ctx", "B")}}, reporter.kept)
	assert.FileExists(t, filepath.Join(wd, "ctx", "B"))
}

func TestRemover_DeletionFailureAborts(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "1"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "2"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "3"), []byte("payload"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	reporter := &recordingReporter{}
	remover := NewRemover(RemoveOptions{}, reporter)
	calls := 0
	remover.remove = func(path string) error {
		calls++
		if calls == 2 {
			return &os.PathError{Op: "remove", Path: path, Err: syscall.EACCES}
		}
		return os.Remove(path)
	}

	result, err := remover.Run(targets, context)
	require.Error(t, err)

	var deletionErr *DeletionError
	require.True(t, errors.As(err, &deletionErr))
	assert.Equal(t, filepath.Join("ctx", "2"), deletionErr.Path)
	assert.ErrorIs(t, err, syscall.EACCES)

	// partial progress stays; nothing after the failure is touched
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, calls)
	assert.NoFileExists(t, filepath.Join(wd, "ctx", "1"))
	assert.FileExists(t, filepath.Join(wd, "ctx", "2"))
	assert.FileExists(t, filepath.Join(wd, "ctx", "3"))
	assert.FileExists(t, filepath.Join(wd, "target", "A"))
}

func TestRemoveDuplicates_VanishedCandidateIsSkipped(t *testing.T) {
	wd := canonicalTempDir(t)
	writeFile(t, filepath.Join(wd, "target", "A"), []byte("payload"))
	writeFile(t, filepath.Join(wd, "ctx", "B"), []byte("payload"))

	targets, context := prepareTrees(t, wd, "target", "ctx")
	require.NoError(t, os.Remove(filepath.Join(wd, "ctx", "B")))

	result, err := RemoveDuplicates(targets, context, RemoveOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Matched)
}
