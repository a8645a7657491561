package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "/usr/local/var/mosaic/static"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/mosaic/data/vectordb"
	}
	if cfg.Storage.LibraryPath == "" {
		cfg.Storage.LibraryPath = "/usr/local/var/mosaic/data/db/library.db"
	}
	if cfg.Storage.KeywordIndexPath == "" {
		cfg.Storage.KeywordIndexPath = "/usr/local/var/mosaic/data/indices/bleve"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/mosaic/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.OllamaURL == "" {
		cfg.Embedding.OllamaURL = "http://localhost:11434"
	}
	if cfg.Embedding.OllamaModel == "" {
		cfg.Embedding.OllamaModel = "nomic-embed-text"
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = 512
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 50
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 10
	}
	if cfg.Search.MaxTopK == 0 {
		cfg.Search.MaxTopK = 100
	}
	if cfg.Search.MinSimilarity == 0 {
		cfg.Search.MinSimilarity = 0.3
	}
	if cfg.Search.ContextChunks == 0 {
		cfg.Search.ContextChunks = 2
	}
	if cfg.Insights.BaseURL == "" {
		cfg.Insights.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Insights.Model == "" {
		cfg.Insights.Model = "gemini-2.5-pro"
	}
	if cfg.Insights.TTSModel == "" {
		cfg.Insights.TTSModel = "gpt-4o-mini-tts"
	}
	if cfg.Insights.HostVoice == "" {
		cfg.Insights.HostVoice = "coral"
	}
	if cfg.Insights.GuestVoice == "" {
		cfg.Insights.GuestVoice = "onyx"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".docx", ".xlsx", ".txt", ".md"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
