// Package dupetree finds files in a context directory tree that duplicate
// files in a target tree, comparing content rather than names, and can
// remove the duplicates that live outside the target.
//
// # Core API
//
// Prepare walks both trees and fingerprints the target:
//
//	session, err := dupetree.Prepare(dupetree.Options{
//		Target:     "photos",
//		Context:    "/home/me",
//		WorkingDir: "/home/me",
//	})
//
// List duplicates:
//
//	groups, err := session.Duplicates()
//	for _, group := range groups {
//		fmt.Println(group.Original, group.Duplicates)
//	}
//
// Remove them, reporting each deletion:
//
//	rw, _ := dupetree.NewReportWriter(os.Stdout, "human", target, context)
//	result, err := session.Remove(rw)
//
// # Fingerprints
//
// A Fingerprint is a file's length plus a digest of its first and last
// 8 MiB. The digest is computed lazily, only when another fingerprint of the
// same length has to be compared, and at most once. Files longer than 8 MiB
// that agree on length, prefix and suffix but differ in the middle compare
// equal.
//
// # Configuration
//
// Settings are read from an ini file (see LoadConfig) and debug output is
// enabled with SetVerboseLevel and SetDebugFlags("walk,hash,match,remove").
package dupetree
