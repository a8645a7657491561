package embedding

import (
	"fmt"

	"github.com/mosaic-docs/mosaic/internal/config"
)

// New constructs the embedder selected by cfg.Provider: "onnx", "ollama" or "mock".
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "onnx":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaModel, cfg.CacheSize), nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
