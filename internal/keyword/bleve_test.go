package keyword

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndex_PutSearch(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	ix.Put(ctx, "file:1", "bayes.pdf", "Bayesian inference and probability theory")
	ix.Put(ctx, "file:2", "tax.pdf", "Income tax law and filing deadlines")

	results, err := ix.Search(ctx, "probability", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].FileID != "file:1" {
		t.Errorf("file id: got %s", results[0].FileID)
	}
	if results[0].Filename != "bayes.pdf" {
		t.Errorf("filename: got %s", results[0].Filename)
	}
	if results[0].Score <= 0 {
		t.Errorf("score: got %f", results[0].Score)
	}
}

func TestIndex_SearchFilename(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	ix.Put(ctx, "file:1", "quarterly-report.pdf", "unrelated body text")
	results, err := ix.Search(ctx, "quarterly", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("filename terms should be searchable, got %d results", len(results))
	}
}

func TestIndex_PutReplaces(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	ix.Put(ctx, "file:1", "a.pdf", "original words here")
	ix.Put(ctx, "file:1", "a.pdf", "replacement body entirely")

	if results, _ := ix.Search(ctx, "original", 10); len(results) != 0 {
		t.Error("old content should no longer match")
	}
	if results, _ := ix.Search(ctx, "replacement", 10); len(results) != 1 {
		t.Error("new content should match")
	}
}

func TestIndex_Delete(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	ix.Put(ctx, "file:1", "a.pdf", "searchable words")
	if err := ix.Delete(ctx, "file:1"); err != nil {
		t.Fatal(err)
	}
	if results, _ := ix.Search(ctx, "searchable", 10); len(results) != 0 {
		t.Error("deleted document should not match")
	}
}

func TestIndex_Reset(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	ix.Put(ctx, "file:1", "a.pdf", "some indexed words")
	if err := ix.Reset(); err != nil {
		t.Fatal(err)
	}
	if results, _ := ix.Search(ctx, "indexed", 10); len(results) != 0 {
		t.Error("reset index should be empty")
	}
	// The reset index accepts new writes.
	if err := ix.Put(ctx, "file:2", "b.pdf", "fresh content"); err != nil {
		t.Fatal(err)
	}
}

func TestIndex_OpenExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bleve")
	ix, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	ix.Put(context.Background(), "file:1", "a.pdf", "persistent words")
	ix.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	results, err := reopened.Search(context.Background(), "persistent", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Error("reopened index should retain documents")
	}
}
