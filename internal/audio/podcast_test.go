package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mosaic-docs/mosaic/internal/models"
)

func TestConcatMP3(t *testing.T) {
	first := bytes.Repeat([]byte{1}, 2048)
	second := bytes.Repeat([]byte{2}, 2048)
	out := concatMP3([][]byte{first, second})
	if len(out) != 2048+2048-mp3HeaderSkip {
		t.Errorf("length: got %d", len(out))
	}
	if out[0] != 1 || out[len(out)-1] != 2 {
		t.Error("segments out of order")
	}
}

func TestConcatMP3_ShortSegmentKeptWhole(t *testing.T) {
	first := bytes.Repeat([]byte{1}, 2048)
	tiny := []byte{2, 2, 2}
	out := concatMP3([][]byte{first, tiny})
	if len(out) != 2048+3 {
		t.Errorf("short segments should not be trimmed, got %d bytes", len(out))
	}
}

func TestEstimateDuration(t *testing.T) {
	// 140 words at 140 wpm is one minute.
	text := strings.TrimSpace(strings.Repeat("word ", 140))
	if got := EstimateDuration(text); math.Abs(got-60) > 0.01 {
		t.Errorf("got %f seconds", got)
	}
	if got := EstimateDuration(""); got != 0 {
		t.Errorf("empty text: got %f", got)
	}
}

func TestSynthesizer_Synthesize(t *testing.T) {
	var voices []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key123" {
			t.Errorf("auth: %s", r.Header.Get("Authorization"))
		}
		var req speechRequest
		json.NewDecoder(r.Body).Decode(&req)
		voices = append(voices, req.Voice)
		w.Write(bytes.Repeat([]byte{0xAA}, 1500))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewSynthesizer(NewTTSClient(srv.URL, "key123", "tts-model"), "coral", "onyx", dir)

	script := &models.PodcastScript{
		Title: "Test Episode",
		Segments: []models.PodcastSegment{
			{Speaker: "host", Text: "Welcome to the show everyone."},
			{Speaker: "guest", Text: "Happy to be here today."},
		},
	}
	out, err := s.Synthesize(context.Background(), script)
	if err != nil {
		t.Fatal(err)
	}
	if len(voices) != 2 || voices[0] != "coral" || voices[1] != "onyx" {
		t.Errorf("voices: %v", voices)
	}
	if out.SegmentCount != 2 || out.Title != "Test Episode" {
		t.Errorf("result: %+v", out)
	}
	if !strings.HasPrefix(out.URL, "/static/podcast_") || !strings.HasSuffix(out.URL, ".mp3") {
		t.Errorf("url: %s", out.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, out.Filename))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1500+1500-mp3HeaderSkip {
		t.Errorf("file size: got %d", len(data))
	}
}

func TestSynthesizer_EmptyScript(t *testing.T) {
	s := NewSynthesizer(NewTTSClient("http://unused", "k", "m"), "a", "b", t.TempDir())
	if _, err := s.Synthesize(context.Background(), &models.PodcastScript{Title: "x"}); err == nil {
		t.Error("expected error for empty script")
	}
}

func TestTTSClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewTTSClient(srv.URL, "k", "m")
	if _, err := c.Synthesize(context.Background(), "text", "voice"); err == nil {
		t.Error("expected error on non-200 response")
	}
}
