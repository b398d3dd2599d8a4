package dupetree

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	name := HashTypeName(typeID)
	if name == "unknown" {
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
	return GetHashAlgorithm(name)
}

// Sampler hashes the prefix and suffix windows of a file into one digest.
type Sampler struct {
	Algorithm  *HashAlgorithm
	WindowSize int64
}

// DefaultSampler returns a SHA-256 sampler with 8 MiB windows.
func DefaultSampler() *Sampler {
	algorithm, _ := GetHashAlgorithm("sha256")
	return &Sampler{Algorithm: algorithm, WindowSize: DefaultWindowSize}
}

// NewSampler builds a sampler from an algorithm name and a human size string ("8M").
func NewSampler(algorithmName, window string) (*Sampler, error) {
	algorithm, err := GetHashAlgorithm(algorithmName)
	if err != nil {
		return nil, err
	}
	size, err := ParseHumanSize(window)
	if err != nil {
		return nil, fmt.Errorf("invalid sample window: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("sample window must be positive, got %d", size)
	}
	return &Sampler{Algorithm: algorithm, WindowSize: int64(size)}, nil
}

// SuffixLength returns how many trailing bytes are hashed for a file of the given length.
func (s *Sampler) SuffixLength(length int64) int64 {
	if length <= s.WindowSize {
		return 0
	}
	return min(s.WindowSize, length-s.WindowSize)
}

// HashFile hashes up to WindowSize bytes from the start of the file and, when
// length exceeds the window, the last SuffixLength(length) bytes into the same
// accumulator. length is the size recorded when the fingerprint was taken.
func (s *Sampler) HashFile(filePath string, length int64) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	adviseSequential(file, s.WindowSize)
	defer adviseDontNeed(file)

	hasher := s.Algorithm.NewFunc()
	// Capped at the recorded length: bytes appended after the stat are not
	// part of the fingerprint.
	buffer := make([]byte, min(s.WindowSize, max(length, 1)))

	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
	}
	hasher.Write(buffer[:n])
	if IsDebugEnabled(DebugHash) {
		VerboseLog(3, "hash %s: prefix %d bytes", filePath, n)
	}

	if remaining := s.SuffixLength(length); remaining > 0 {
		if _, err := file.Seek(-remaining, io.SeekEnd); err != nil {
			return nil, fmt.Errorf("failed to seek in file %s: %w", filePath, err)
		}
		n, err = io.ReadFull(file, buffer[:remaining])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
		hasher.Write(buffer[:n])
		if IsDebugEnabled(DebugHash) {
			VerboseLog(3, "hash %s: suffix %d bytes", filePath, n)
		}
	}

	return hasher.Sum(nil), nil
}
