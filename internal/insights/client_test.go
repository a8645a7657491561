package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("key: %s", r.URL.Query().Get("key"))
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("request contents: %+v", req.Contents)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.Temperature != 0.3 {
			t.Errorf("generation config: %+v", req.GenerationConfig)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: "part one "}, {Text: "part two"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "test-model")
	out, err := c.Generate(context.Background(), "hello", similarityConfig)
	if err != nil {
		t.Fatal(err)
	}
	if out != "part one part two" {
		t.Errorf("got %q", out)
	}
}

func TestClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "invalid key"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", "m")
	_, err := c.Generate(context.Background(), "hello", nil)
	if err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Errorf("got %v", err)
	}
}

func TestClient_Generate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m")
	if _, err := c.Generate(context.Background(), "hello", nil); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestNewManager_RequiresKey(t *testing.T) {
	if _, err := NewManager("http://x", "", "m"); err == nil {
		t.Error("expected error for missing API key")
	}
}
