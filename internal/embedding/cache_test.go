package embedding

import "testing"

func TestCache_GetSet(t *testing.T) {
	c := NewCache(10)
	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache should miss")
	}
	c.Set("hello", []float32{1, 2, 3})
	vec, ok := c.Get("hello")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestCache_Eviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("c", []float32{3})
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry should survive")
	}
	if c.Len() != 2 {
		t.Errorf("len: got %d, want 2", c.Len())
	}
}

func TestCache_LRUOrder(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a") // refresh a
	c.Set("c", []float32{3})
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{9})
	vec, _ := c.Get("a")
	if vec[0] != 9 {
		t.Errorf("overwrite: got %v", vec)
	}
	if c.Len() != 1 {
		t.Errorf("len after overwrite: got %d", c.Len())
	}
}
