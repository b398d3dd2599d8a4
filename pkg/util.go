package dupetree

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseHumanSize parses sizes like "8M", "512K", "1.5GB" into bytes
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB", "KIB":
		multiplier = 1024
	case "M", "MB", "MIB":
		multiplier = 1024 * 1024
	case "G", "GB", "GIB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * float64(multiplier))
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(result), nil
}

// FormatHumanSize renders a byte count with a binary suffix ("1.5M")
func FormatHumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%dB", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(size)/float64(div), "KMGTPE"[exp])
}

// relativeTo rewrites an absolute path relative to workingDir. Paths outside
// workingDir come back with leading "../" elements.
func relativeTo(path, workingDir string) (string, error) {
	rel, err := filepath.Rel(workingDir, path)
	if err != nil {
		return "", fmt.Errorf("cannot relativize %s against %s: %w", path, workingDir, err)
	}
	return rel, nil
}

// isWithin reports whether the relative path rel is root or lies below it
func isWithin(rel, root string) bool {
	sep := string(filepath.Separator)
	if root == "." {
		return rel != ".." && !strings.HasPrefix(rel, ".."+sep)
	}
	return rel == root || strings.HasPrefix(rel, root+sep)
}
