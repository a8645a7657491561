// Package audio synthesizes podcast scripts to MP3 through a speech API and
// assembles the segments into a single served file.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TTSClient calls an OpenAI-compatible /audio/speech endpoint that returns
// raw MP3 bytes.
type TTSClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewTTSClient creates a speech client.
func NewTTSClient(baseURL, apiKey, model string) *TTSClient {
	return &TTSClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// Synthesize converts text to MP3 bytes using the given voice.
func (c *TTSClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{Model: c.model, Voice: voice, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call speech API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech API returned status %d", resp.StatusCode)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech API returned empty audio")
	}
	return audio, nil
}
