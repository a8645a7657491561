package models

import "fmt"

// SearchRequest is a semantic search request.
type SearchRequest struct {
	Query         string  `json:"query"`
	TopK          int     `json:"top_k,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes top_k and the threshold.
func (q *SearchRequest) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = 10
	}
	if q.TopK > 100 {
		q.TopK = 100
	}
	if q.MinSimilarity < 0 {
		q.MinSimilarity = 0
	}
	if q.MinSimilarity > 1 {
		q.MinSimilarity = 1
	}
	return nil
}
