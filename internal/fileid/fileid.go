// Package fileid produces the opaque document identifiers that group chunks
// of one ingested document.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	pathPrefix   = "file:"
	uploadPrefix = "upload:"
)

// FromPath returns a stable ID for a file path. The same path always yields
// the same ID, so re-ingesting a watched file is a no-op and removal by path
// finds the original document.
func FromPath(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return pathPrefix + hex.EncodeToString(sum[:])
}

// FromUpload returns a fresh unique ID for content uploaded without a stable
// source path.
func FromUpload() string {
	return uploadPrefix + uuid.NewString()
}
