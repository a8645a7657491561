// Package embedding provides text embedding providers (ONNX, Ollama, mock)
// behind a common interface, with caching. All providers return unit-length
// vectors so that inner product equals cosine similarity.
package embedding

import (
	"context"
	"math"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NormalizeL2 normalizes the vector in place to unit L2 norm.
// Zero vectors are left unchanged.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}
