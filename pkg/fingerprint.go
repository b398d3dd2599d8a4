package dupetree

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
)

// Fingerprint identifies a file by its length and a sampled content hash.
//
// The hash is computed on first use and cached for the life of the value; it
// is never invalidated if the file changes afterwards. BucketKey depends on the
// length alone, so fingerprints can be bucketed without reading any content.
type Fingerprint struct {
	path     string
	location string
	length   int64
	sampler  *Sampler

	hash      []byte
	hashErr   error
	computed  bool
	computing bool
}

// NewFingerprint stats path and returns a fingerprint for it. Symlinks are
// followed; anything that is not a regular file is rejected with ErrNotAFile.
func NewFingerprint(path string, sampler *Sampler) (*Fingerprint, error) {
	return newFingerprintAt(path, path, sampler)
}

// newFingerprintAt fingerprints the file at location, reporting it as path.
func newFingerprintAt(path, location string, sampler *Sampler) (*Fingerprint, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	if sampler == nil {
		sampler = DefaultSampler()
	}
	return &Fingerprint{
		path:     path,
		location: location,
		length:   info.Size(),
		sampler:  sampler,
	}, nil
}

// Path returns the path the fingerprint was taken from
func (fp *Fingerprint) Path() string {
	return fp.path
}

// Location returns the path used to open the file
func (fp *Fingerprint) Location() string {
	return fp.location
}

// Length returns the file size captured at construction
func (fp *Fingerprint) Length() int64 {
	return fp.length
}

// BucketKey is the value used to partition fingerprints before full comparison.
func (fp *Fingerprint) BucketKey() int64 {
	return fp.length
}

// IsComputed reports whether the content hash has already been evaluated.
func (fp *Fingerprint) IsComputed() bool {
	return fp.computed
}

// ContentHash returns the sampled digest, computing it on first call. A
// failed computation is cached too, so a file is read at most once.
func (fp *Fingerprint) ContentHash() ([]byte, error) {
	if fp.computed {
		return fp.hash, fp.hashErr
	}
	if fp.computing {
		return nil, &HashError{Path: fp.path, Err: fmt.Errorf("re-entrant hash computation")}
	}

	fp.computing = true
	defer func() { fp.computing = false }()

	sum, err := fp.sampler.HashFile(fp.location, fp.length)
	if err != nil {
		fp.hashErr = &HashError{Path: fp.path, Err: err}
	} else {
		fp.hash = sum
	}
	fp.computed = true
	VerboseLog(3, "computed %s hash for %s (%d bytes)", fp.sampler.Algorithm.Name, fp.path, fp.length)

	return fp.hash, fp.hashErr
}

// HashString returns the hex encoded content hash
func (fp *Fingerprint) HashString() (string, error) {
	sum, err := fp.ContentHash()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// Equal reports whether both fingerprints have the same length and content
// hash. Hashes are only computed when the lengths match.
func (fp *Fingerprint) Equal(other *Fingerprint) (bool, error) {
	if fp == other {
		return true, nil
	}
	if other == nil || fp.length != other.length {
		return false, nil
	}

	ours, err := fp.ContentHash()
	if err != nil {
		return false, err
	}
	theirs, err := other.ContentHash()
	if err != nil {
		return false, err
	}
	return bytes.Equal(ours, theirs), nil
}

func (fp *Fingerprint) String() string {
	return fmt.Sprintf("%s (%d bytes)", fp.path, fp.length)
}
