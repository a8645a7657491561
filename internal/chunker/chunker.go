// Package chunker splits document text into bounded, overlapping, sentence-aware segments.
package chunker

import "strings"

const (
	// boundaryWindow is how far back from the raw cut point we look for a sentence ending.
	boundaryWindow = 100
	// minChunkRatio is the smallest fraction of chunkSize a boundary-adjusted chunk may have.
	minChunkRatio = 0.7
)

// sentenceEndings are tried in priority order; the first ending with an
// acceptable right-most occurrence wins.
var sentenceEndings = [][]rune{{'.'}, {'!'}, {'?'}, {'\n', '\n'}}

// Chunker splits text into overlapping character windows, preferring to cut
// at sentence boundaries near the window end.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker with the given window size and overlap (in characters).
// Overlap is clamped below chunkSize so every iteration makes progress.
func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// ChunkSize returns the configured window size in characters.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into ordered, non-empty, trimmed segments. Text no longer
// than chunkSize yields a single segment. Whitespace-only input yields nil.
func (c *Chunker) Chunk(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			// Final window: emit the tail and stop.
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}
		end = c.adjustToBoundary(runes, start, end)
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := end - c.overlap
		if next <= start {
			// Overlap would stall the window; advance past this chunk instead.
			next = end
		}
		start = next
	}
	return chunks
}

// adjustToBoundary searches the last boundaryWindow characters before end for
// a sentence ending and cuts just after the right-most occurrence, unless that
// would shrink the chunk below minChunkRatio of chunkSize.
func (c *Chunker) adjustToBoundary(runes []rune, start, end int) int {
	windowStart := end - boundaryWindow
	if windowStart < start {
		windowStart = start
	}
	minEnd := start + int(float64(c.chunkSize)*minChunkRatio)
	window := runes[windowStart:end]
	for _, ending := range sentenceEndings {
		pos := lastIndexRunes(window, ending)
		if pos == -1 {
			continue
		}
		candidate := windowStart + pos + len(ending)
		if candidate > minEnd {
			return candidate
		}
	}
	return end
}

// lastIndexRunes returns the index of the last occurrence of sep in s, or -1.
func lastIndexRunes(s, sep []rune) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if s[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
