package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	a, err := e.Embed(context.Background(), "the same text")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(context.Background(), "the same text")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
	c, _ := e.Embed(context.Background(), "different text")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should produce different embeddings")
	}
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	e := NewMockEmbedder(384)
	vec, err := e.Embed(context.Background(), "normalize me")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("norm: got %f, want 1.0", math.Sqrt(sum))
	}
}

func TestMockEmbedder_Batch(t *testing.T) {
	e := NewMockEmbedder(16)
	vecs, err := e.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	single, _ := e.Embed(context.Background(), "two")
	for i := range single {
		if vecs[1][i] != single[i] {
			t.Fatal("batch embedding should match single embedding")
		}
	}
}

func TestNormalizeL2_Zero(t *testing.T) {
	vec := []float32{0, 0, 0}
	NormalizeL2(vec)
	for _, v := range vec {
		if v != 0 {
			t.Error("zero vector should stay zero")
		}
	}
}
