package dupetree

import (
	"os"
)

// RemoveOptions controls RemoveDuplicates
type RemoveOptions struct {
	Silent bool // don't report deleted files
	Debug  bool // report the retained target instead of deleting
	MatchOptions
}

// RemoveResult summarises a removal run
type RemoveResult struct {
	Matched        int   `json:"matched" yaml:"matched"`
	Deleted        int   `json:"deleted" yaml:"deleted"`
	Kept           int   `json:"kept" yaml:"kept"`
	BytesReclaimed int64 `json:"bytes_reclaimed" yaml:"bytes_reclaimed"`
}

// RemovalReporter receives one event per matched context file
type RemovalReporter interface {
	Deleted(path string) error
	Kept(original, duplicate string) error
}

// Remover deletes context files that duplicate a target file. The target
// file is never touched.
type Remover struct {
	Options  RemoveOptions
	Reporter RemovalReporter

	remove func(string) error
}

// NewRemover creates a remover that deletes with os.Remove
func NewRemover(opts RemoveOptions, reporter RemovalReporter) *Remover {
	return &Remover{Options: opts, Reporter: reporter, remove: os.Remove}
}

// RemoveDuplicates is a convenience wrapper around NewRemover(...).Run
func RemoveDuplicates(targets *TargetSet, context []string, opts RemoveOptions, reporter RemovalReporter) (*RemoveResult, error) {
	return NewRemover(opts, reporter).Run(targets, context)
}

// Run matches context against targets exactly like FindDuplicates and acts on
// each match as it is found. The first deletion failure stops the run and is
// returned as a *DeletionError; files removed before it stay removed.
func (r *Remover) Run(targets *TargetSet, context []string) (*RemoveResult, error) {
	defer VerboseEnter()()

	result := &RemoveResult{}
	err := matchContext(targets, context, r.Options.MatchOptions, func(original, candidate *Fingerprint) error {
		result.Matched++

		if r.Options.Debug {
			result.Kept++
			if r.Reporter != nil {
				return r.Reporter.Kept(original.Path(), candidate.Path())
			}
			return nil
		}

		if err := r.remove(candidate.Location()); err != nil {
			return &DeletionError{Path: candidate.Path(), Err: err}
		}
		result.Deleted++
		result.BytesReclaimed += candidate.Length()
		if IsDebugEnabled(DebugRemove) {
			VerboseLog(2, "removed %s (duplicate of %s)", candidate.Path(), original.Path())
		}

		if !r.Options.Silent && r.Reporter != nil {
			return r.Reporter.Deleted(candidate.Path())
		}
		return nil
	})

	VerboseLog(1, "removal: %d matched, %d deleted, %d kept, %s reclaimed",
		result.Matched, result.Deleted, result.Kept, FormatHumanSize(result.BytesReclaimed))
	return result, err
}
