// Package keyword provides an exact-term search index over ingested documents,
// complementing semantic search for queries like identifiers or rare names
// that embeddings rank poorly.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/mosaic-docs/mosaic/internal/models"
)

// Index is a Bleve-backed keyword index keyed by file ID.
type Index struct {
	path  string
	index bleve.Index
}

// indexedDocument is the shape stored in Bleve.
type indexedDocument struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so exact terms
	// match exactly.
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	doc.AddFieldMappingsAt("filename", text)
	doc.AddFieldMappingsAt("content", text)
	im.DefaultMapping = doc
	return im
}

// Open opens the index at path, creating it if absent.
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		ix, err := bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open keyword index: %w", err)
		}
		return &Index{path: path, index: ix}, nil
	}
	ix, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}
	return &Index{path: path, index: ix}, nil
}

// Put indexes a document's filename and content under fileID, replacing any
// prior entry.
func (ix *Index) Put(ctx context.Context, fileID, filename, content string) error {
	return ix.index.Index(fileID, &indexedDocument{Filename: filename, Content: content})
}

// Search runs a match query over filename and content, returning up to limit
// results ordered by relevance.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]*models.KeywordResult, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"filename"}
	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	out := make([]*models.KeywordResult, len(res.Hits))
	for i, hit := range res.Hits {
		r := &models.KeywordResult{FileID: hit.ID, Score: hit.Score}
		if name, ok := hit.Fields["filename"].(string); ok {
			r.Filename = name
		}
		out[i] = r
	}
	return out, nil
}

// Delete removes the entry for fileID. Removing an absent entry is not an error.
func (ix *Index) Delete(ctx context.Context, fileID string) error {
	return ix.index.Delete(fileID)
}

// Reset drops the whole index and recreates it empty.
func (ix *Index) Reset() error {
	if err := ix.index.Close(); err != nil {
		return fmt.Errorf("failed to close keyword index: %w", err)
	}
	if err := os.RemoveAll(ix.path); err != nil {
		return fmt.Errorf("failed to remove keyword index: %w", err)
	}
	fresh, err := bleve.New(ix.path, buildMapping())
	if err != nil {
		return fmt.Errorf("failed to recreate keyword index: %w", err)
	}
	ix.index = fresh
	return nil
}

// Close closes the underlying index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
