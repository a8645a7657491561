package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/models"
)

// mp3HeaderSkip is how many leading bytes to drop from non-first segments
// when concatenating. Raw byte concatenation of MP3 files is approximate but
// plays in common players; the skip drops most of the ID3/header block.
const mp3HeaderSkip = 1024

// speakingWPM is the assumed speaking rate for duration estimation.
const speakingWPM = 140.0

// Synthesizer turns podcast scripts into MP3 files under staticDir.
type Synthesizer struct {
	tts        *TTSClient
	hostVoice  string
	guestVoice string
	staticDir  string
	logger     *zap.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets a logger for operational output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// NewSynthesizer creates a synthesizer writing MP3 files into staticDir.
func NewSynthesizer(tts *TTSClient, hostVoice, guestVoice, staticDir string, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		tts:        tts,
		hostVoice:  hostVoice,
		guestVoice: guestVoice,
		staticDir:  staticDir,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PodcastAudio describes a synthesized podcast file.
type PodcastAudio struct {
	Filename        string  `json:"filename"`
	URL             string  `json:"audio_url"`
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration_seconds"`
	SegmentCount    int     `json:"segments_count"`
	FileSizeMB      float64 `json:"file_size_mb"`
}

// Synthesize renders every segment of script with alternating voices,
// concatenates the MP3 bytes and writes the result under the static
// directory. Returns the file description for serving.
func (s *Synthesizer) Synthesize(ctx context.Context, script *models.PodcastScript) (*PodcastAudio, error) {
	if len(script.Segments) == 0 {
		return nil, fmt.Errorf("script has no segments")
	}

	segments := make([][]byte, 0, len(script.Segments))
	for i, seg := range script.Segments {
		voice := s.guestVoice
		if seg.Speaker == "host" {
			voice = s.hostVoice
		}
		audio, err := s.tts.Synthesize(ctx, seg.Text, voice)
		if err != nil {
			return nil, fmt.Errorf("synthesize segment %d: %w", i, err)
		}
		segments = append(segments, audio)
	}

	combined := concatMP3(segments)

	if err := os.MkdirAll(s.staticDir, 0755); err != nil {
		return nil, fmt.Errorf("create static dir: %w", err)
	}
	filename := fmt.Sprintf("podcast_%s.mp3", uuid.NewString())
	path := filepath.Join(s.staticDir, filename)
	if err := os.WriteFile(path, combined, 0644); err != nil {
		return nil, fmt.Errorf("write podcast file: %w", err)
	}

	var texts []string
	for _, seg := range script.Segments {
		texts = append(texts, seg.Text)
	}
	duration := EstimateDuration(strings.Join(texts, " "))

	s.logger.Info("podcast synthesized",
		zap.String("file", filename),
		zap.Int("segments", len(script.Segments)),
		zap.Float64("estimated_seconds", duration))

	return &PodcastAudio{
		Filename:        filename,
		URL:             "/static/" + filename,
		Title:           script.Title,
		DurationSeconds: duration,
		SegmentCount:    len(script.Segments),
		FileSizeMB:      float64(len(combined)) / 1024 / 1024,
	}, nil
}

// concatMP3 joins MP3 segments by raw byte concatenation, keeping the first
// segment whole and skipping the header block of the rest.
func concatMP3(segments [][]byte) []byte {
	var out []byte
	for i, seg := range segments {
		if i == 0 || len(seg) <= mp3HeaderSkip {
			out = append(out, seg...)
			continue
		}
		out = append(out, seg[mp3HeaderSkip:]...)
	}
	return out
}

// EstimateDuration estimates spoken duration in seconds from word count.
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	return float64(words) / speakingWPM * 60.0
}
