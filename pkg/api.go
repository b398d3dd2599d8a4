package dupetree

import (
	"fmt"
	"path/filepath"
)

// This file ties the engine together: materialize both trees, fingerprint
// the target, then list or remove duplicates.

// Options is the fully resolved configuration for one run
type Options struct {
	Target     string // required
	Context    string // defaults to WorkingDir
	WorkingDir string // paths are reported relative to this directory

	Force  bool // delete duplicates instead of listing them
	Silent bool // don't report deleted files
	Debug  bool // report kept targets instead of deleting

	Sampler        *Sampler
	Ignore         *IgnoreManager
	SkipUnreadable bool
}

// ApplyConfig fills sampler, ignore patterns and error policy from cfg
func (o *Options) ApplyConfig(cfg *Config) error {
	all := cfg.GetAllConfig()

	sampler, err := NewSampler(all.Hash.Default, all.Hash.Window)
	if err != nil {
		return err
	}
	o.Sampler = sampler

	if o.Ignore == nil {
		o.Ignore = &IgnoreManager{}
	}
	for _, pattern := range all.Ignore.Patterns {
		if err := o.Ignore.AddPattern(pattern); err != nil {
			return err
		}
	}

	if err := ValidateUnreadablePolicy(all.Errors.Unreadable); err != nil {
		return err
	}
	o.SkipUnreadable = all.Errors.Unreadable == UnreadableSkip
	return nil
}

// Session holds the materialized trees for one run. The target set is
// read-only once Prepare returns.
type Session struct {
	opts    Options
	targets *TargetSet
	context []string
}

// Prepare resolves the target, walks both trees and fingerprints the target files.
func Prepare(opts Options) (*Session, error) {
	defer VerboseEnter()()

	if opts.WorkingDir == "" {
		return nil, fmt.Errorf("working directory is required")
	}
	workingDir, err := CanonicalDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory %s: %w", opts.WorkingDir, err)
	}
	opts.WorkingDir = workingDir
	if opts.Context == "" {
		opts.Context = opts.WorkingDir
	}
	opts.Target = resolveAgainst(opts.Target, opts.WorkingDir)
	opts.Context = resolveAgainst(opts.Context, opts.WorkingDir)

	if err := CheckTarget(opts.Target); err != nil {
		return nil, err
	}

	targetPaths := MaterializeTarget(opts.Target, opts.WorkingDir, opts.Ignore)
	targets, err := NewTargetSet(targetPaths, opts.WorkingDir, opts.Sampler)
	if err != nil {
		return nil, err
	}
	context := MaterializeContext(opts.Context, targetPaths, opts.WorkingDir, opts.Ignore)

	return &Session{opts: opts, targets: targets, context: context}, nil
}

// Targets returns the target lookup
func (s *Session) Targets() *TargetSet {
	return s.targets
}

// Context returns the candidate paths in walk order
func (s *Session) Context() []string {
	return s.context
}

// Duplicates lists the duplicate groups
func (s *Session) Duplicates() ([]DuplicateGroup, error) {
	return FindDuplicates(s.targets, s.context, MatchOptions{SkipUnreadable: s.opts.SkipUnreadable})
}

// Remove deletes (or in debug mode reports) every duplicate
func (s *Session) Remove(reporter RemovalReporter) (*RemoveResult, error) {
	return RemoveDuplicates(s.targets, s.context, RemoveOptions{
		Silent:       s.opts.Silent,
		Debug:        s.opts.Debug,
		MatchOptions: MatchOptions{SkipUnreadable: s.opts.SkipUnreadable},
	}, reporter)
}

// Run prepares a session and either lists or removes duplicates, writing to rw.
// The returned result is nil for listings.
func Run(opts Options, rw *ReportWriter) (*RemoveResult, error) {
	session, err := Prepare(opts)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		groups, err := session.Duplicates()
		if err != nil {
			return nil, err
		}
		if err := rw.WriteGroups(groups); err != nil {
			return nil, err
		}
		return nil, rw.Flush(nil)
	}

	result, err := session.Remove(rw)
	if flushErr := rw.Flush(result); err == nil {
		err = flushErr
	}
	return result, err
}

func resolveAgainst(path, workingDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}
