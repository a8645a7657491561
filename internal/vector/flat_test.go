package vector

import (
	"math"
	"path/filepath"
	"testing"
)

func TestNewFlatIndex_BadDimensions(t *testing.T) {
	if _, err := NewFlatIndex(0); err == nil {
		t.Error("expected error for zero dimensions")
	}
	if _, err := NewFlatIndex(-5); err == nil {
		t.Error("expected error for negative dimensions")
	}
}

func TestFlatIndex_AddSearch(t *testing.T) {
	ix, err := NewFlatIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	if err := ix.Add(vectors); err != nil {
		t.Fatal(err)
	}
	if ix.Size() != 3 {
		t.Fatalf("size: got %d", ix.Size())
	}

	hits, err := ix.Search([]float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits: got %d", len(hits))
	}
	if hits[0].Row != 1 {
		t.Errorf("best hit should be row 1, got %d", hits[0].Row)
	}
	if math.Abs(hits[0].Score-1.0) > 1e-6 {
		t.Errorf("best score: got %f", hits[0].Score)
	}
	if hits[1].Score > hits[0].Score {
		t.Error("hits should be ordered by descending score")
	}
}

func TestFlatIndex_SearchEmpty(t *testing.T) {
	ix, _ := NewFlatIndex(4)
	hits, err := ix.Search([]float32{1, 0, 0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if hits != nil {
		t.Errorf("empty index should return nil hits, got %v", hits)
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	ix, _ := NewFlatIndex(3)
	if err := ix.Add([][]float32{{1, 0}}); err == nil {
		t.Error("expected add error for wrong dimension")
	}
	if ix.Size() != 0 {
		t.Error("failed add should not modify the index")
	}
	if _, err := ix.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected search error for wrong query dimension")
	}
}

func TestFlatIndex_AddAtomic(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	err := ix.Add([][]float32{{1, 0}, {1, 0, 0}})
	if err == nil {
		t.Fatal("expected error")
	}
	if ix.Size() != 0 {
		t.Errorf("partial add should not append anything, size %d", ix.Size())
	}
}

func TestFlatIndex_KLargerThanSize(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	ix.Add([][]float32{{1, 0}, {0, 1}})
	hits, err := ix.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("expected all rows, got %d", len(hits))
	}
}

func TestFlatIndex_Rebuild(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	ix.Add([][]float32{{1, 0}, {0, 1}, {1, 0}})
	if err := ix.Rebuild([][]float32{{0, 1}}); err != nil {
		t.Fatal(err)
	}
	if ix.Size() != 1 {
		t.Fatalf("size after rebuild: got %d", ix.Size())
	}
	hits, _ := ix.Search([]float32{0, 1}, 1)
	if hits[0].Row != 0 {
		t.Errorf("rebuilt index should renumber rows from 0, got %d", hits[0].Row)
	}
}

func TestFlatIndex_Truncate(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	ix.Add([][]float32{{1, 0}, {0, 1}, {1, 0}})
	ix.Truncate(1)
	if ix.Size() != 1 {
		t.Fatalf("size after truncate: got %d", ix.Size())
	}
	ix.Truncate(5) // beyond size is a no-op
	if ix.Size() != 1 {
		t.Errorf("truncate beyond size should not grow, got %d", ix.Size())
	}
}

func TestFlatIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "index.bin")
	ix, _ := NewFlatIndex(3)
	vectors := [][]float32{
		{0.5, 0.5, 0.70710678},
		{1, 0, 0},
	}
	ix.Add(vectors)
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewFlatIndex(3)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size: got %d", loaded.Size())
	}
	hits, _ := loaded.Search([]float32{1, 0, 0}, 2)
	if hits[0].Row != 1 {
		t.Errorf("loaded index should preserve row order, best row %d", hits[0].Row)
	}
}

func TestFlatIndex_LoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	ix, _ := NewFlatIndex(3)
	ix.Add([][]float32{{1, 0, 0}})
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}

	other, _ := NewFlatIndex(4)
	if err := other.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestFlatIndex_LoadMissingFile(t *testing.T) {
	ix, _ := NewFlatIndex(3)
	if err := ix.Load(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInnerProduct(t *testing.T) {
	tests := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{1, 2}, []float32{1, 2, 3}, 0}, // length mismatch
		{nil, nil, 0},
	}
	for _, tt := range tests {
		if got := InnerProduct(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("InnerProduct(%v, %v): got %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestL2Norm(t *testing.T) {
	if got := L2Norm([]float32{3, 4}); math.Abs(got-5) > 1e-6 {
		t.Errorf("L2Norm: got %f, want 5", got)
	}
	if got := L2Norm(nil); got != 0 {
		t.Errorf("L2Norm(nil): got %f", got)
	}
}
