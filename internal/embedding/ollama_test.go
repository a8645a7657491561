package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	var gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		gotModel, gotPrompt = req.Model, req.Prompt
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{3, 4}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model", 10)
	vec, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if gotModel != "test-model" || gotPrompt != "hello world" {
		t.Errorf("request: model=%q prompt=%q", gotModel, gotPrompt)
	}
	// 3-4-5 triangle normalized to unit length.
	if math.Abs(float64(vec[0])-0.6) > 1e-5 || math.Abs(float64(vec[1])-0.8) > 1e-5 {
		t.Errorf("normalized vector: got %v", vec)
	}
	if e.Dimensions() != 2 {
		t.Errorf("dimensions: got %d, want 2", e.Dimensions())
	}
}

func TestOllamaEmbedder_CacheHit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{1, 0}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "m", 10)
	for i := 0; i < 3; i++ {
		if _, err := e.Embed(context.Background(), "repeated"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("server calls: got %d, want 1", calls)
	}
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "missing", 10)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestOllamaEmbedder_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "m", 10)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error on empty embedding")
	}
}
