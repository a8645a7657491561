package models

import "time"

// SearchResult is a single semantic search hit: the best-matching chunk of one document.
type SearchResult struct {
	Content              string         `json:"content"`
	Metadata             *ChunkMetadata `json:"metadata"`
	SimilarityScore      float64        `json:"similarity_score"`
	SimilarityPercentage float64        `json:"similarity_percentage"`
}

// DatabaseStats summarizes the vector database contents.
type DatabaseStats struct {
	TotalDocuments     int       `json:"total_documents"`
	TotalChunks        int       `json:"total_chunks"`
	DatabaseSizeMB     float64   `json:"database_size_mb"`
	EmbeddingDimension int       `json:"embedding_dimension"`
	LastUpdated        time.Time `json:"last_updated"`
}

// KeywordResult is a single keyword search hit over the document library.
type KeywordResult struct {
	FileID   string  `json:"file_id"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}
