package dupetree

import (
	"errors"
	"fmt"
	"path/filepath"
)

// TargetSet is the read-only lookup of target fingerprints, bucketed by
// BucketKey. Equal target files share an equality class; Probe always
// answers with the first one in sorted path order.
type TargetSet struct {
	workingDir string
	sampler    *Sampler
	buckets    map[int64][]*Fingerprint
	count      int
}

// NewTargetSet fingerprints every regular file in paths. Paths are relative
// to workingDir. Directories and other non-regular entries are skipped; any
// other stat failure is returned since the target tree must resolve fully.
func NewTargetSet(paths *PathSet, workingDir string, sampler *Sampler) (*TargetSet, error) {
	defer VerboseEnter()()

	if sampler == nil {
		sampler = DefaultSampler()
	}
	ts := &TargetSet{
		workingDir: workingDir,
		sampler:    sampler,
		buckets:    make(map[int64][]*Fingerprint),
	}

	var walkErr error
	paths.ForEach(func(rel, _ string) bool {
		fp, err := ts.Fingerprint(rel)
		if errors.Is(err, ErrNotAFile) {
			return true
		}
		if err != nil {
			walkErr = fmt.Errorf("failed to fingerprint target %s: %w", rel, err)
			return false
		}
		ts.buckets[fp.BucketKey()] = append(ts.buckets[fp.BucketKey()], fp)
		ts.count++
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	VerboseLog(1, "target set: %d files in %d size buckets", ts.count, len(ts.buckets))
	return ts, nil
}

// Fingerprint builds a fingerprint for a working-directory relative path
// using this set's sampler.
func (ts *TargetSet) Fingerprint(rel string) (*Fingerprint, error) {
	return newFingerprintAt(rel, ts.Resolve(rel), ts.sampler)
}

// Resolve returns the location of a working-directory relative path
func (ts *TargetSet) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(ts.workingDir, rel)
}

// Probe returns the target-owned fingerprint equal to candidate, or nil.
// Only fingerprints in the candidate's bucket are compared, so content is
// hashed only when a target of the same length exists.
func (ts *TargetSet) Probe(candidate *Fingerprint) (*Fingerprint, error) {
	for _, fp := range ts.buckets[candidate.BucketKey()] {
		equal, err := fp.Equal(candidate)
		if err != nil {
			return nil, err
		}
		if equal {
			return fp, nil
		}
	}
	return nil, nil
}

// Len returns the number of target fingerprints
func (ts *TargetSet) Len() int {
	return ts.count
}

// BucketCount returns the number of distinct lengths in the set
func (ts *TargetSet) BucketCount() int {
	return len(ts.buckets)
}
