// Package library maintains the SQLite registry of ingested documents: one
// row per document with its source path, size and chunk count. The registry
// backs the document-listing API; chunk text lives in the vector database.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mosaic-docs/mosaic/internal/models"
)

// Library is the SQLite-backed document registry.
type Library struct {
	db *sql.DB
}

// Open opens or creates the registry database at dbPath and initializes the
// schema. Parent directories are created as needed.
func Open(dbPath string) (*Library, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create library directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		source_path TEXT,
		size_bytes INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,
		ingested_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_filename ON documents(filename);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize library schema: %w", err)
	}
	return &Library{db: db}, nil
}

// Put inserts or replaces the registry entry for doc.
func (l *Library) Put(ctx context.Context, doc *models.LibraryDocument) error {
	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, filename, source_path, size_bytes, chunk_count, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.SourcePath, doc.SizeBytes, doc.ChunkCount, doc.IngestedAt,
	)
	return err
}

// Get returns the registry entry for id, or nil when absent.
func (l *Library) Get(ctx context.Context, id string) (*models.LibraryDocument, error) {
	var doc models.LibraryDocument
	err := l.db.QueryRowContext(ctx,
		`SELECT id, filename, source_path, size_bytes, chunk_count, ingested_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.SizeBytes, &doc.ChunkCount, &doc.IngestedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns all registry entries ordered by ingestion time, newest first.
func (l *Library) List(ctx context.Context) ([]*models.LibraryDocument, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, filename, source_path, size_bytes, chunk_count, ingested_at
		 FROM documents ORDER BY ingested_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.LibraryDocument
	for rows.Next() {
		var doc models.LibraryDocument
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.SizeBytes, &doc.ChunkCount, &doc.IngestedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Delete removes the registry entry for id. Deleting an absent entry is not an error.
func (l *Library) Delete(ctx context.Context, id string) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// DeleteByFilename removes entries whose filename matches and returns their IDs.
func (l *Library) DeleteByFilename(ctx context.Context, filename string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id FROM documents WHERE filename = ?`, filename)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if _, err := l.db.ExecContext(ctx, `DELETE FROM documents WHERE filename = ?`, filename); err != nil {
		return nil, err
	}
	return ids, nil
}

// Clear removes every registry entry.
func (l *Library) Clear(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM documents`)
	return err
}

// Count returns the number of registered documents.
func (l *Library) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (l *Library) Close() error {
	return l.db.Close()
}
