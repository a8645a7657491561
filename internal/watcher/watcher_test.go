package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-ch:
			if filepath.Clean(got) == filepath.Clean(want) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestWatcher_IngestOnWrite(t *testing.T) {
	dir := t.TempDir()
	ingested := make(chan string, 10)

	w := New([]string{dir}, []string{".txt"}, true, func(p string) { ingested <- p }, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, ingested, path)
}

func TestWatcher_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	ingested := make(chan string, 10)

	w := New([]string{dir}, []string{".pdf"}, true, func(p string) { ingested <- p }, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "keep.pdf"), []byte("x"), 0644)

	select {
	case got := <-ingested:
		if filepath.Base(got) != "keep.pdf" {
			t.Errorf("unexpected ingest: %s", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for keep.pdf")
	}
}

func TestWatcher_RemoveCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	removed := make(chan string, 10)
	w := New([]string{dir}, []string{".txt"}, true, nil, func(p string) { removed <- p })
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, removed, path)
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pre-existing.md")
	os.WriteFile(path, []byte("content"), 0644)

	ingested := make(chan string, 10)
	w := New([]string{dir}, []string{".md"}, true, func(p string) { ingested <- p }, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExistingFiles()
	waitFor(t, ingested, path)
}

func TestWatcher_AddRemoveDirectory(t *testing.T) {
	base := t.TempDir()
	w := New(nil, nil, true, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	extra := filepath.Join(base, "extra")
	if err := w.AddDirectory(extra, false); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 1 {
		t.Fatalf("directories: %v", w.Directories())
	}
	// Adding the same root twice is a no-op.
	if err := w.AddDirectory(extra, false); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 1 {
		t.Fatalf("duplicate add: %v", w.Directories())
	}

	if err := w.RemoveDirectory(extra); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Fatalf("directories after remove: %v", w.Directories())
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"/a/b.pdf", []string{".pdf"}, true},
		{"/a/b.PDF", []string{".pdf"}, true},
		{"/a/b.txt", []string{".pdf"}, false},
		{"/a/b.anything", nil, true},
		{"/a/b.md", []string{"md"}, true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.exts); got != tt.want {
			t.Errorf("matchExtension(%q, %v): got %v", tt.path, tt.exts, got)
		}
	}
}
