package dupetree

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// pathEntry is the item stored in a PathSet; the path doubles as its key.
type pathEntry struct {
	path string
}

// PathSet is a sorted set of relative paths, each tagged with the context
// (TargetContext or ContextContext) it was materialized under.
type PathSet struct {
	skiplist *zcsl.ZeroCopySkiplist[pathEntry, string, string]
	roots    []string
}

// NewPathSet creates an empty path set
func NewPathSet() *PathSet {
	getKeyFromItem := func(entry *pathEntry) string {
		return entry.path
	}
	getItemSize := func(entry *pathEntry) int {
		return len(entry.path)
	}

	return &PathSet{
		skiplist: zcsl.MakeZeroCopySkiplist[pathEntry, string, string](
			16,
			getKeyFromItem,
			getItemSize,
			strings.Compare,
		),
	}
}

// Add inserts path under the given context. Returns false if it was already present.
func (ps *PathSet) Add(path, context string) bool {
	if ps.Contains(path) {
		return false
	}
	return ps.skiplist.Insert(&pathEntry{path: path}, context)
}

// Contains reports whether path is a member
func (ps *PathSet) Contains(path string) bool {
	node, _ := ps.skiplist.Find(path)
	return node != nil
}

// AddRoot records path as the root of a materialized tree
func (ps *PathSet) AddRoot(path string) {
	ps.roots = append(ps.roots, path)
}

// Covers reports whether path is a member or lies under a recorded root.
// Entries the walk skipped (ignored or unreadable) are still covered.
func (ps *PathSet) Covers(path string) bool {
	if ps.Contains(path) {
		return true
	}
	for _, root := range ps.roots {
		if isWithin(path, root) {
			return true
		}
	}
	return false
}

// Context returns the context a path was added under, or "" if absent
func (ps *PathSet) Context(path string) string {
	node, context := ps.skiplist.Find(path)
	if node == nil {
		return ""
	}
	return context
}

// Len returns the number of paths in the set
func (ps *PathSet) Len() int {
	return ps.skiplist.Length()
}

// ForEach visits paths in sorted order until the callback returns false
func (ps *PathSet) ForEach(callback func(path, context string) bool) {
	for current := ps.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item().path, current.Context()) {
			break
		}
	}
}

// Paths returns all members in sorted order
func (ps *PathSet) Paths() []string {
	paths := make([]string, 0, ps.Len())
	ps.ForEach(func(path, _ string) bool {
		paths = append(paths, path)
		return true
	})
	return paths
}
