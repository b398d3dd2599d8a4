package dupetree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CanonicalDir resolves dir to an absolute path with symlinks evaluated. If
// symlinks cannot be evaluated the absolute path is returned as is.
func CanonicalDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// CheckTarget verifies the target root exists and is something a walk can
// produce files from: a directory or a single regular file.
func CheckTarget(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", root, ErrTargetNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve target %s: %w", root, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("target %s: %w", root, ErrNotAFile)
	}
	return nil
}

// MaterializeTarget walks root and returns every entry, canonicalized and made
// relative to workingDir. Entries that fail to resolve are skipped.
func MaterializeTarget(root, workingDir string, ignore *IgnoreManager) *PathSet {
	defer VerboseEnter()()

	targets := NewPathSet()
	walkCanonical(root, workingDir, ignore, func(rel string, isRoot bool) {
		if isRoot {
			targets.AddRoot(rel)
		}
		targets.Add(rel, TargetContext)
	})
	VerboseLog(1, "target %s: %d entries", root, targets.Len())
	return targets
}

// MaterializeContext walks root like MaterializeTarget and returns the entries
// in walk order, leaving out anything inside the target tree, including
// entries the target walk ignored. A path reached
// twice (for example through a symlink) is listed once.
func MaterializeContext(root string, targets *PathSet, workingDir string, ignore *IgnoreManager) []string {
	defer VerboseEnter()()

	seen := NewPathSet()
	var context []string
	walkCanonical(root, workingDir, ignore, func(rel string, _ bool) {
		if targets != nil && targets.Covers(rel) {
			return
		}
		if !seen.Add(rel, ContextContext) {
			return
		}
		context = append(context, rel)
	})
	VerboseLog(1, "context %s: %d entries", root, len(context))
	return context
}

// walkCanonical visits each entry under root, root included. Walk errors are
// per entry: the entry (and a directory's unread contents) is skipped.
func walkCanonical(root, workingDir string, ignore *IgnoreManager, visit func(rel string, isRoot bool)) {
	rootPath, err := filepath.Abs(root)
	if err != nil {
		VerboseLog(2, "skipping root %s: %v", root, err)
		return
	}
	if resolved, err := filepath.EvalSymlinks(rootPath); err == nil {
		rootPath = resolved
	} else {
		VerboseLog(2, "skipping root %s: %v", root, err)
		return
	}

	base, err := CanonicalDir(workingDir)
	if err != nil {
		VerboseLog(2, "cannot resolve working directory %s: %v", workingDir, err)
		return
	}

	scoped, err := ignore.ForRoot(rootPath)
	if err != nil {
		Warnf("ignoring %s: %v", filepath.Join(rootPath, IgnoreFileName), err)
		scoped = ignore
	}

	filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if IsDebugEnabled(DebugWalk) {
				VerboseLog(3, "walk %s: %v", path, err)
			}
			return nil
		}

		if path != rootPath {
			if rel, err := filepath.Rel(rootPath, path); err == nil && scoped.ShouldIgnore(rel) {
				if IsDebugEnabled(DebugWalk) {
					VerboseLog(3, "walk %s: ignored", path)
				}
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		canonical, err := filepath.EvalSymlinks(path)
		if err != nil {
			if IsDebugEnabled(DebugWalk) {
				VerboseLog(3, "walk %s: %v", path, err)
			}
			return nil
		}
		rel, err := relativeTo(canonical, base)
		if err != nil {
			VerboseLog(3, "walk %s: %v", path, err)
			return nil
		}
		visit(rel, path == rootPath)
		return nil
	})
}
