// Package fileid derives stable paper IDs from job file paths so that
// rewriting a job replaces its paper instead of adding another.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const (
	prefix = "job-"
	// hexLen keeps IDs short enough for file names and URLs.
	hexLen = 24
)

// JobID returns a stable paper ID for the job file at path.
// Paths are cleaned first, so "/in/a.yaml" and "/in/./a.yaml" agree.
func JobID(path string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(path)))
	return prefix + hex.EncodeToString(hash[:])[:hexLen]
}

// IsJobID reports whether id was produced by JobID.
func IsJobID(id string) bool {
	if len(id) != len(prefix)+hexLen || id[:len(prefix)] != prefix {
		return false
	}
	_, err := hex.DecodeString(id[len(prefix):])
	return err == nil
}
