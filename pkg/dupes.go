package dupetree

import (
	"sort"
)

// DuplicateGroup is a target file together with the context files that match it
type DuplicateGroup struct {
	Original   string   `json:"original" yaml:"original"`
	Hash       string   `json:"hash" yaml:"hash"`
	Size       int64    `json:"size" yaml:"size"`
	Duplicates []string `json:"duplicates" yaml:"duplicates"`
	Count      int      `json:"count" yaml:"count"`
}

// MatchOptions controls how matching treats files that cannot be hashed
type MatchOptions struct {
	// SkipUnreadable turns hash read failures into per-file warnings instead of aborting.
	SkipUnreadable bool
}

// FindDuplicates groups context paths under the target file they duplicate.
// Context entries that are not regular files are skipped. Groups are ordered
// by original path; duplicates keep context order.
func FindDuplicates(targets *TargetSet, context []string, opts MatchOptions) ([]DuplicateGroup, error) {
	defer VerboseEnter()()

	duplicates := make(map[*Fingerprint][]string)
	err := matchContext(targets, context, opts, func(original, candidate *Fingerprint) error {
		duplicates[original] = append(duplicates[original], candidate.Path())
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result []DuplicateGroup
	// every entry has the original plus at least one duplicate
	for original, files := range duplicates {
		hash, err := original.HashString()
		if err != nil {
			return nil, err
		}
		result = append(result, DuplicateGroup{
			Original:   original.Path(),
			Hash:       hash,
			Size:       original.Length(),
			Duplicates: files,
			Count:      len(files) + 1,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Original < result[j].Original
	})

	VerboseLog(1, "found %d duplicate groups", len(result))
	return result, nil
}

// matchContext fingerprints each context path, probes the target set and
// calls onMatch with the target-owned fingerprint for every hit.
func matchContext(targets *TargetSet, context []string, opts MatchOptions, onMatch func(original, candidate *Fingerprint) error) error {
	for _, rel := range context {
		candidate, err := targets.Fingerprint(rel)
		if err != nil {
			if IsDebugEnabled(DebugMatch) {
				VerboseLog(3, "skip %s: %v", rel, err)
			}
			continue
		}

		original, err := targets.Probe(candidate)
		if err != nil {
			if opts.SkipUnreadable && IsHashError(err) {
				Warnf("skipping %s: %v", rel, err)
				continue
			}
			return err
		}
		if original == nil {
			continue
		}

		if IsDebugEnabled(DebugMatch) {
			VerboseLog(2, "match %s -> %s", rel, original.Path())
		}
		if err := onMatch(original, candidate); err != nil {
			return err
		}
	}
	return nil
}
