package util

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateID returns a stable ID for a pose file path.
func GenerateID(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	h := sha1.Sum([]byte(filepath.Clean(file)))
	return hex.EncodeToString(h[:])
}

// NewRunID identifies one indexing run.
func NewRunID() string {
	return uuid.NewString()
}
