// Package ingest runs the document ingestion pipeline: text extraction,
// chunked embedding into the vector database, library registration, and
// keyword indexing.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/extract"
	"github.com/mosaic-docs/mosaic/internal/fileid"
	"github.com/mosaic-docs/mosaic/internal/keyword"
	"github.com/mosaic-docs/mosaic/internal/library"
	"github.com/mosaic-docs/mosaic/internal/models"
	"github.com/mosaic-docs/mosaic/internal/vectordb"
)

// Pipeline ties the extraction, vector, library, and keyword layers together
// so every ingestion path (upload, API, watcher) behaves identically.
type Pipeline struct {
	extractor *extract.Extractor
	vdb       *vectordb.Manager
	library   *library.Library
	keyword   *keyword.Index
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for ingestion events.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over the given layers.
func New(extractor *extract.Extractor, vdb *vectordb.Manager, lib *library.Library, kw *keyword.Index, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		vdb:       vdb,
		library:   lib,
		keyword:   kw,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestContent ingests already-extracted text under fileID. The document is
// chunked and embedded, registered in the library, and keyword-indexed.
// Returns the number of chunks stored.
func (p *Pipeline) IngestContent(ctx context.Context, content, filename, fileID, sourcePath string, extra map[string]interface{}) (int, error) {
	if err := p.vdb.AddDocument(ctx, content, filename, fileID, extra); err != nil {
		return 0, err
	}
	chunks := p.vdb.DocumentChunkCount(fileID)

	doc := &models.LibraryDocument{
		ID:         fileID,
		Filename:   filename,
		SourcePath: sourcePath,
		SizeBytes:  int64(len(content)),
		ChunkCount: chunks,
	}
	if err := p.library.Put(ctx, doc); err != nil {
		return chunks, fmt.Errorf("failed to register document: %w", err)
	}
	if err := p.keyword.Put(ctx, fileID, filename, content); err != nil {
		return chunks, fmt.Errorf("failed to keyword-index document: %w", err)
	}
	p.logger.Info("document ingested",
		zap.String("file_id", fileID),
		zap.String("filename", filename),
		zap.Int("chunks", chunks))
	return chunks, nil
}

// IngestFile extracts text from path and ingests it. The file ID is derived
// from the path, so re-ingesting the same file replaces its previous
// contents. Returns the file ID.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	content, err := p.extractor.Extract(abs)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", abs, err)
	}
	id := fileid.FromPath(abs)
	if p.vdb.HasDocument(id) {
		if _, err := p.RemoveByID(ctx, id, filepath.Base(abs)); err != nil {
			return "", err
		}
	}
	if _, err := p.IngestContent(ctx, content, filepath.Base(abs), id, abs, nil); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveFile removes the document previously ingested from path. Missing
// documents are not an error.
func (p *Pipeline) RemoveFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	_, err = p.RemoveByID(ctx, fileid.FromPath(abs), filepath.Base(abs))
	return err
}

// RemoveByID removes a document from all three layers. fileID may be empty
// when only a filename is known; library and keyword cleanup then fall to
// the caller. Returns the number of chunks removed from the vector database.
func (p *Pipeline) RemoveByID(ctx context.Context, fileID, filename string) (int, error) {
	removed, err := p.vdb.RemoveDocument(ctx, filename, fileID)
	if err != nil {
		return 0, err
	}
	if fileID != "" {
		if err := p.library.Delete(ctx, fileID); err != nil {
			return removed, err
		}
		if err := p.keyword.Delete(ctx, fileID); err != nil {
			return removed, err
		}
	}
	if removed > 0 {
		p.logger.Info("document removed",
			zap.String("file_id", fileID),
			zap.Int("chunks", removed))
	}
	return removed, nil
}

// Clear wipes the vector database, the library registry, and the keyword
// index.
func (p *Pipeline) Clear(ctx context.Context) error {
	if err := p.vdb.ClearDatabase(ctx); err != nil {
		return err
	}
	if err := p.library.Clear(ctx); err != nil {
		return err
	}
	return p.keyword.Reset()
}

// statOK reports whether path exists and is a regular file.
func statOK(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IngestFileIfRegular ingests path only when it is a regular file. Watcher
// events can arrive for paths that vanished or never were files.
func (p *Pipeline) IngestFileIfRegular(ctx context.Context, path string) {
	if !statOK(path) {
		return
	}
	if _, err := p.IngestFile(ctx, path); err != nil {
		p.logger.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
	}
}
