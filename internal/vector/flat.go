// Package vector provides a flat inner-product index over unit-length vectors.
package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// FlatIndex stores vectors in insertion order and searches them exhaustively
// by inner product. Rows are addressed by position, so callers keeping a
// parallel slice of payloads stay aligned with the index. FlatIndex is not
// safe for concurrent use; the owning manager serializes access.
type FlatIndex struct {
	dimensions int
	vectors    [][]float32
}

// Hit is a single search result: the row position and its inner-product score.
type Hit struct {
	Row   int
	Score float64
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dimensions int) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &FlatIndex{dimensions: dimensions}, nil
}

// Add appends vectors to the index in order. Every vector must match the
// index dimension; on mismatch nothing is appended.
func (ix *FlatIndex) Add(vectors [][]float32) error {
	for i, vec := range vectors {
		if len(vec) != ix.dimensions {
			return fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(vec), ix.dimensions)
		}
	}
	for _, vec := range vectors {
		cp := make([]float32, ix.dimensions)
		copy(cp, vec)
		ix.vectors = append(ix.vectors, cp)
	}
	return nil
}

// Search returns up to k rows ordered by descending inner product with query.
// An empty index returns nil without error.
func (ix *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), ix.dimensions)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return nil, nil
	}
	hits := make([]Hit, len(ix.vectors))
	for row, vec := range ix.vectors {
		hits[row] = Hit{Row: row, Score: InnerProduct(query, vec)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Rebuild replaces the index contents with the given vectors.
func (ix *FlatIndex) Rebuild(vectors [][]float32) error {
	ix.vectors = nil
	return ix.Add(vectors)
}

// Truncate drops rows from position n onward. Used to roll back a failed append.
func (ix *FlatIndex) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(ix.vectors) {
		ix.vectors = ix.vectors[:n]
	}
}

// Size returns the number of rows.
func (ix *FlatIndex) Size() int { return len(ix.vectors) }

// Dimensions returns the vector dimension.
func (ix *FlatIndex) Dimensions() int { return ix.dimensions }

// Save writes the index to path: dimension (uint32), row count (uint32), then
// row-major little-endian float32 data. Parent directories are created.
func (ix *FlatIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, uint32(ix.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(ix.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, vec := range ix.vectors {
		if _, err := f.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load replaces the index contents from a file written by Save. The stored
// dimension must match the index dimension.
func (ix *FlatIndex) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if int(dim) != ix.dimensions {
		return fmt.Errorf("dimension mismatch: file has %d, index expects %d", dim, ix.dimensions)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}

	vectors := make([][]float32, 0, n)
	buf := make([]byte, ix.dimensions*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("read vector %d: %w", i, err)
		}
		vectors = append(vectors, bytesToFloat32Slice(buf))
	}
	ix.vectors = vectors
	return nil
}

func float32SliceToBytes(s []float32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*4:(i+1)*4], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return out
}
