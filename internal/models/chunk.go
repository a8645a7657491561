// Package models defines core data structures for chunks, search results, and stats.
package models

import "time"

// ChunkMetadata describes one chunk of an ingested document. Metadata entries are
// stored index-aligned with chunk texts and index vectors (same position addresses
// the same chunk in all three).
type ChunkMetadata struct {
	FileID         string                 `json:"file_id"`
	Filename       string                 `json:"filename"`
	ChunkID        string                 `json:"chunk_id"`
	ChunkIndex     int                    `json:"chunk_index"`
	TotalChunks    int                    `json:"total_chunks"`
	Timestamp      time.Time              `json:"timestamp"`
	ContentPreview string                 `json:"content_preview"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

// DocumentInput is the input for ingesting a document.
type DocumentInput struct {
	FileID   string                 `json:"file_id,omitempty"`
	Filename string                 `json:"filename"`
	Content  string                 `json:"content"`
	Extra    map[string]interface{} `json:"extra,omitempty"`
}

// LibraryDocument is a registry entry for an ingested source document.
type LibraryDocument struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	SourcePath string    `json:"source_path,omitempty" db:"source_path"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	ChunkCount int       `json:"chunk_count" db:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at" db:"ingested_at"`
}
