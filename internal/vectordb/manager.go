// Package vectordb composes the chunker, embedder and flat index into a
// consistent document database with search, removal and on-disk persistence.
package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/chunker"
	"github.com/mosaic-docs/mosaic/internal/embedding"
	"github.com/mosaic-docs/mosaic/internal/models"
	"github.com/mosaic-docs/mosaic/internal/vector"
)

const (
	indexFile     = "index.bin"
	documentsFile = "documents.json"
	metadataFile  = "metadata.json"

	highlightStart = ">>> HIGHLIGHTED SECTION <<<"
	highlightEnd   = ">>> END HIGHLIGHT <<<"

	// dimensionProbe is embedded once at construction to discover the model's
	// output dimension, which is then fixed for the life of the database.
	dimensionProbe = "dimension probe"
)

// Manager owns the three parallel containers (chunk texts, chunk metadata,
// index vectors) and keeps them in positional lockstep across all mutations.
// A single RWMutex serializes writers against readers; database sizes are
// small enough that a coarse lock is not a bottleneck.
type Manager struct {
	dbPath   string
	embedder embedding.Embedder
	chunker  *chunker.Chunker
	logger   *zap.Logger

	mu        sync.RWMutex
	index     *vector.FlatIndex
	documents []string
	metadata  []*models.ChunkMetadata
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a logger for operational output (documents added, removed, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager rooted at dbPath, loading a prior snapshot if
// all three artifact files exist, otherwise starting empty. The embedding
// dimension is discovered by a probe embed; a snapshot with a different
// dimension fails construction.
func NewManager(ctx context.Context, dbPath string, embedder embedding.Embedder, ck *chunker.Chunker, opts ...Option) (*Manager, error) {
	m := &Manager{
		dbPath:   dbPath,
		embedder: embedder,
		chunker:  ck,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	probe, err := embedder.Embed(ctx, dimensionProbe)
	if err != nil {
		return nil, fmt.Errorf("failed to probe embedding dimension: %w", err)
	}
	m.index, err = vector.NewFlatIndex(len(probe))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	if err := m.load(); err != nil {
		return nil, err
	}
	m.logger.Info("vector database ready",
		zap.String("path", dbPath),
		zap.Int("dimensions", m.index.Dimensions()),
		zap.Int("chunks", len(m.documents)))
	return m, nil
}

// load restores the snapshot triple from disk. Absence of any artifact file
// means no prior database and leaves the manager empty.
func (m *Manager) load() error {
	paths := []string{
		filepath.Join(m.dbPath, indexFile),
		filepath.Join(m.dbPath, documentsFile),
		filepath.Join(m.dbPath, metadataFile),
	}
	missing := 0
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				missing++
				continue
			}
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	if missing == len(paths) {
		return nil
	}
	if missing > 0 {
		m.logger.Warn("partial snapshot on disk, starting empty",
			zap.String("path", m.dbPath),
			zap.Int("missing_artifacts", missing))
		return nil
	}

	if err := m.index.Load(paths[0]); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	if err := readJSON(paths[1], &m.documents); err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if err := readJSON(paths[2], &m.metadata); err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	if len(m.documents) != len(m.metadata) || len(m.documents) != m.index.Size() {
		return fmt.Errorf("snapshot is inconsistent: %d documents, %d metadata, %d vectors",
			len(m.documents), len(m.metadata), m.index.Size())
	}
	return nil
}

// AddDocument chunks content, embeds all chunks in one batch and appends them
// to the database, persisting the new snapshot. Idempotent on fileID: a
// document that is already indexed is skipped without error. If persistence
// fails the in-memory append is rolled back.
func (m *Manager) AddDocument(ctx context.Context, content, filename, fileID string, extra map[string]interface{}) error {
	if m.hasDocument(fileID) {
		m.logger.Info("document already indexed, skipping", zap.String("file_id", fileID))
		return nil
	}

	chunks := m.chunker.Chunk(content)
	if len(chunks) == 0 {
		return fmt.Errorf("document %q has no indexable content", filename)
	}

	vectors, err := m.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed document %q: %w", filename, err)
	}

	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock: a concurrent add may have won.
	for _, meta := range m.metadata {
		if meta.FileID == fileID {
			return nil
		}
	}

	prev := m.index.Size()
	if err := m.index.Add(vectors); err != nil {
		return fmt.Errorf("failed to index document %q: %w", filename, err)
	}
	for i, chunk := range chunks {
		m.documents = append(m.documents, chunk)
		m.metadata = append(m.metadata, &models.ChunkMetadata{
			FileID:         fileID,
			Filename:       filename,
			ChunkID:        fmt.Sprintf("%s_chunk_%d", fileID, i),
			ChunkIndex:     i,
			TotalChunks:    len(chunks),
			Timestamp:      now,
			ContentPreview: preview(chunk),
			Extra:          extra,
		})
	}

	if err := m.persist(); err != nil {
		m.index.Truncate(prev)
		m.documents = m.documents[:prev]
		m.metadata = m.metadata[:prev]
		return fmt.Errorf("failed to persist database: %w", err)
	}

	m.logger.Info("document added",
		zap.String("file_id", fileID),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)))
	return nil
}

// SearchSimilar embeds the query and returns up to topK results ordered by
// descending similarity, keeping only the best-scoring chunk per document.
// An empty database returns an empty result set without error.
func (m *Manager) SearchSimilar(ctx context.Context, query string, topK int, minSimilarity float64) ([]*models.SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}
	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits, err := m.index.Search(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	// Keep the single best chunk per document so one source cannot crowd
	// out the rest of the result list.
	best := make(map[string]*models.SearchResult)
	for _, hit := range hits {
		if hit.Score < minSimilarity {
			continue
		}
		meta := m.metadata[hit.Row]
		if prior, ok := best[meta.FileID]; ok && prior.SimilarityScore >= hit.Score {
			continue
		}
		best[meta.FileID] = &models.SearchResult{
			Content:              m.documents[hit.Row],
			Metadata:             meta,
			SimilarityScore:      hit.Score,
			SimilarityPercentage: math.Round(hit.Score*1000) / 10,
		}
	}

	results := make([]*models.SearchResult, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	return results, nil
}

// GetDocumentContext returns the chunks around chunkIndex for fileID, with the
// target chunk wrapped in highlight markers. If the requested index is absent
// the document's first chunk is returned; an unknown fileID returns "".
func (m *Manager) GetDocumentContext(fileID string, chunkIndex, contextChunks int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type numbered struct {
		index int
		text  string
	}
	var chunks []numbered
	for i, meta := range m.metadata {
		if meta.FileID == fileID {
			chunks = append(chunks, numbered{index: meta.ChunkIndex, text: m.documents[i]})
		}
	}
	if len(chunks) == 0 {
		return ""
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].index < chunks[j].index })

	target := -1
	for i, c := range chunks {
		if c.index == chunkIndex {
			target = i
			break
		}
	}
	if target == -1 {
		return chunks[0].text
	}

	lo := target - contextChunks
	if lo < 0 {
		lo = 0
	}
	hi := target + contextChunks
	if hi > len(chunks)-1 {
		hi = len(chunks) - 1
	}

	var b strings.Builder
	for i := lo; i <= hi; i++ {
		if i > lo {
			b.WriteString("\n\n")
		}
		if i == target {
			b.WriteString(highlightStart)
			b.WriteString("\n")
			b.WriteString(chunks[i].text)
			b.WriteString("\n")
			b.WriteString(highlightEnd)
		} else {
			b.WriteString(chunks[i].text)
		}
	}
	return b.String()
}

// RemoveDocument deletes every chunk whose metadata matches name or path and
// rebuilds the index from the surviving chunks. Matching is deliberately
// loose: filename equality with name, or, when path is given, file ID
// equality, filename equality, or path being a substring of the file ID.
// Returns the number of chunks removed; zero with no error when nothing matched.
func (m *Manager) RemoveDocument(ctx context.Context, name, path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := func(meta *models.ChunkMetadata) bool {
		if meta.Filename == name {
			return true
		}
		if path == "" {
			return false
		}
		return meta.FileID == path || meta.Filename == path || strings.Contains(meta.FileID, path)
	}

	var (
		keptDocs []string
		keptMeta []*models.ChunkMetadata
		removed  int
	)
	for i, meta := range m.metadata {
		if matches(meta) {
			removed++
			continue
		}
		keptDocs = append(keptDocs, m.documents[i])
		keptMeta = append(keptMeta, meta)
	}
	if removed == 0 {
		return 0, nil
	}

	// The flat index has no in-place delete; re-embed the survivors and
	// build a replacement index before touching current state.
	vectors, err := m.embedder.EmbedBatch(ctx, keptDocs)
	if err != nil {
		return 0, fmt.Errorf("failed to re-embed surviving chunks: %w", err)
	}
	rebuilt, err := vector.NewFlatIndex(m.index.Dimensions())
	if err != nil {
		return 0, err
	}
	if err := rebuilt.Rebuild(vectors); err != nil {
		return 0, fmt.Errorf("failed to rebuild index: %w", err)
	}

	prevIndex, prevDocs, prevMeta := m.index, m.documents, m.metadata
	m.index, m.documents, m.metadata = rebuilt, keptDocs, keptMeta

	if err := m.persist(); err != nil {
		m.index, m.documents, m.metadata = prevIndex, prevDocs, prevMeta
		return 0, fmt.Errorf("failed to persist database: %w", err)
	}

	m.logger.Info("document removed",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("chunks_removed", removed))
	return removed, nil
}

// ClearDatabase resets the database to empty and deletes the snapshot files.
// Idempotent: clearing an empty database succeeds with zero removals.
func (m *Manager) ClearDatabase(ctx context.Context) error {
	probe, err := m.embedder.Embed(ctx, dimensionProbe)
	if err != nil {
		return fmt.Errorf("failed to probe embedding dimension: %w", err)
	}
	fresh, err := vector.NewFlatIndex(len(probe))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removedChunks := len(m.documents)
	m.index = fresh
	m.documents = nil
	m.metadata = nil

	deleted := 0
	for _, name := range []string{indexFile, documentsFile, metadataFile} {
		p := filepath.Join(m.dbPath, name)
		if err := os.Remove(p); err == nil {
			deleted++
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}

	m.logger.Info("database cleared",
		zap.Int("chunks_removed", removedChunks),
		zap.Int("files_deleted", deleted))
	return nil
}

// Stats returns database counters and the approximate on-disk snapshot size.
func (m *Manager) Stats() *models.DatabaseStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string]struct{})
	for _, meta := range m.metadata {
		files[meta.FileID] = struct{}{}
	}

	var sizeBytes int64
	for _, name := range []string{indexFile, documentsFile, metadataFile} {
		if info, err := os.Stat(filepath.Join(m.dbPath, name)); err == nil {
			sizeBytes += info.Size()
		}
	}

	return &models.DatabaseStats{
		TotalDocuments:     len(files),
		TotalChunks:        len(m.documents),
		DatabaseSizeMB:     math.Round(float64(sizeBytes)/1024/1024*100) / 100,
		EmbeddingDimension: m.index.Dimensions(),
		LastUpdated:        time.Now().UTC(),
	}
}

// HasDocument reports whether any chunk with the given fileID is indexed.
func (m *Manager) HasDocument(fileID string) bool {
	return m.hasDocument(fileID)
}

// DocumentChunkCount returns the number of indexed chunks for fileID.
func (m *Manager) DocumentChunkCount(fileID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, meta := range m.metadata {
		if meta.FileID == fileID {
			n++
		}
	}
	return n
}

func (m *Manager) hasDocument(fileID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, meta := range m.metadata {
		if meta.FileID == fileID {
			return true
		}
	}
	return false
}

// persist writes the snapshot triple. All three artifacts are staged as .tmp
// files first and renamed only after every write succeeded, so a failure
// leaves the previous consistent triple on disk. Caller holds the write lock.
func (m *Manager) persist() error {
	if err := os.MkdirAll(m.dbPath, 0755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}

	indexTmp := filepath.Join(m.dbPath, indexFile+".tmp")
	docsTmp := filepath.Join(m.dbPath, documentsFile+".tmp")
	metaTmp := filepath.Join(m.dbPath, metadataFile+".tmp")

	if err := m.index.Save(indexTmp); err != nil {
		return err
	}
	if err := writeJSON(docsTmp, m.documents); err != nil {
		return err
	}
	if err := writeJSON(metaTmp, m.metadata); err != nil {
		return err
	}

	for tmp, final := range map[string]string{
		indexTmp: filepath.Join(m.dbPath, indexFile),
		docsTmp:  filepath.Join(m.dbPath, documentsFile),
		metaTmp:  filepath.Join(m.dbPath, metadataFile),
	} {
		if err := os.Rename(tmp, final); err != nil {
			return fmt.Errorf("commit %s: %w", final, err)
		}
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// preview returns the first 100 characters of chunk for metadata display.
func preview(chunk string) string {
	runes := []rune(chunk)
	if len(runes) <= 100 {
		return chunk
	}
	return string(runes[:100])
}
