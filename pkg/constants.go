package dupetree

import "strings"

// Context constants for path set entries
const (
	TargetContext  = "target"
	ContextContext = "context"
)

// Sampling constants
const (
	DefaultWindowSize = 0x0080_0000 // 8 MiB prefix and suffix windows
	DefaultWindow     = "8M"        // same, as written in the config file
)

// Hash type constants
const (
	HashTypeSHA1   uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}

// Output formats
const (
	FormatHuman  = "human"
	FormatFdupes = "fdupes"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Policies for files that cannot be read while hashing
const (
	UnreadableAbort = "abort"
	UnreadableSkip  = "skip"
)

// IgnoreFileName is looked up at the top of each walked root
const IgnoreFileName = ".dupetreeignore"

// Debug flag names understood by SetDebugFlags
const (
	DebugWalk   = "walk"
	DebugHash   = "hash"
	DebugMatch  = "match"
	DebugRemove = "remove"
)
