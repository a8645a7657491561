// Package config provides configuration loading and structs for the Mosaic server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Search    SearchConfig    `yaml:"search"`
	Insights  InsightsConfig  `yaml:"insights"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// StorageConfig holds paths for the vector database and supporting indices.
type StorageConfig struct {
	// DatabasePath is the directory holding the vector database snapshot
	// (index.bin, documents.json, metadata.json).
	DatabasePath     string `yaml:"database_path"`
	LibraryPath      string `yaml:"library_path"`
	KeywordIndexPath string `yaml:"keyword_index_path"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the embedder: "onnx", "ollama", or "mock".
	Provider    string `yaml:"provider"`
	ModelPath   string `yaml:"model_path"`
	Dimensions  int    `yaml:"dimensions"`
	MaxTokens   int    `yaml:"max_tokens"`
	CacheSize   int    `yaml:"cache_size"`
	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`
}

// ChunkingConfig holds text chunking settings (characters).
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// SearchConfig holds semantic search settings.
type SearchConfig struct {
	DefaultTopK   int     `yaml:"default_top_k"`
	MaxTopK       int     `yaml:"max_top_k"`
	MinSimilarity float64 `yaml:"min_similarity"`
	ContextChunks int     `yaml:"context_chunks"`
}

// InsightsConfig holds generative AI settings for the insight and podcast layer.
type InsightsConfig struct {
	// APIKey is read from the GOOGLE_API_KEY environment variable when empty.
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// TTSURL and TTSKey configure the speech endpoint; synthesis is disabled
	// when TTSURL is empty. TTSKey falls back to the TTS_API_KEY environment
	// variable.
	TTSURL     string `yaml:"tts_url"`
	TTSKey     string `yaml:"tts_key"`
	TTSModel   string `yaml:"tts_model"`
	HostVoice  string `yaml:"host_voice"`
	GuestVoice string `yaml:"guest_voice"`
}

// WatchConfig holds drop-directory auto-ingestion settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.LibraryPath = expandPath(cfg.Storage.LibraryPath, configDir)
	cfg.Storage.KeywordIndexPath = expandPath(cfg.Storage.KeywordIndexPath, configDir)
	cfg.Server.StaticDir = expandPath(cfg.Server.StaticDir, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	if cfg.Insights.APIKey == "" {
		cfg.Insights.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Insights.TTSKey == "" {
		cfg.Insights.TTSKey = os.Getenv("TTS_API_KEY")
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
