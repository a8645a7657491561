// Package main is the Mosaic CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/audio"
	"github.com/mosaic-docs/mosaic/internal/chunker"
	"github.com/mosaic-docs/mosaic/internal/config"
	"github.com/mosaic-docs/mosaic/internal/embedding"
	"github.com/mosaic-docs/mosaic/internal/extract"
	"github.com/mosaic-docs/mosaic/internal/ingest"
	"github.com/mosaic-docs/mosaic/internal/insights"
	"github.com/mosaic-docs/mosaic/internal/keyword"
	"github.com/mosaic-docs/mosaic/internal/library"
	"github.com/mosaic-docs/mosaic/internal/models"
	"github.com/mosaic-docs/mosaic/internal/server"
	"github.com/mosaic-docs/mosaic/internal/vectordb"
	"github.com/mosaic-docs/mosaic/internal/watcher"
	"github.com/mosaic-docs/mosaic/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/mosaic/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "mosaic server" from the project dir uses the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "add":
		runAdd()
	case "search":
		runSearch()
	case "remove":
		runRemove()
	case "context":
		runContext()
	case "stats":
		runStats()
	case "clear":
		runClear()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("mosaic version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var insightsMgr *insights.Manager
	if cfg.Insights.APIKey != "" {
		insightsMgr, err = insights.NewManager(cfg.Insights.BaseURL, cfg.Insights.APIKey, cfg.Insights.Model,
			insights.WithLogger(logger))
		if err != nil {
			logger.Fatal("Failed to initialize insights", zap.Error(err))
		}
	} else {
		logger.Info("insights disabled: no API key configured")
	}

	var synth *audio.Synthesizer
	if cfg.Insights.TTSURL != "" && cfg.Insights.TTSKey != "" {
		if err := os.MkdirAll(cfg.Server.StaticDir, 0755); err != nil {
			logger.Fatal("Failed to create static dir", zap.Error(err))
		}
		tts := audio.NewTTSClient(cfg.Insights.TTSURL, cfg.Insights.TTSKey, cfg.Insights.TTSModel)
		synth = audio.NewSynthesizer(tts, cfg.Insights.HostVoice, cfg.Insights.GuestVoice, cfg.Server.StaticDir,
			audio.WithLogger(logger))
	} else {
		logger.Info("speech synthesis disabled: no TTS endpoint configured")
	}

	pipeline := components.Pipeline
	var watchSvc *watcher.Watcher
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				pipeline.IngestFileIfRegular(watchCtx, path)
			},
			func(path string) {
				if err := pipeline.RemoveFile(watchCtx, path); err != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(server.Deps{
		VDB:        components.VDB,
		Library:    components.Library,
		Keyword:    components.Keyword,
		Pipeline:   components.Pipeline,
		Insights:   insightsMgr,
		Synth:      synth,
		Watch:      watchSvc,
		Config:     cfg,
		ConfigPath: resolvedConfigPath,
		Logger:     logger,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAdd() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mosaic add [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		exts := cfg.Watch.Extensions
		n := 0
		err := filepath.WalkDir(path, func(p string, d iofs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !matchExt(p, exts) {
				return err
			}
			if _, ingestErr := components.Pipeline.IngestFile(ctx, p); ingestErr != nil {
				fmt.Printf("Skipped %s: %v\n", p, ingestErr)
				return nil
			}
			n++
			return nil
		})
		if err != nil {
			fmt.Printf("Ingesting directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %d file(s) from %s\n", n, path)
		return
	}
	id, err := components.Pipeline.IngestFile(ctx, path)
	if err != nil {
		fmt.Printf("Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document ingested: %s\n", id)
}

// matchExt reports whether path has one of the extensions (empty = all).
func matchExt(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	topK := fs.Int("top-k", 0, "number of results (0 = config default)")
	minSimilarity := fs.Float64("min-similarity", 0, "minimum similarity score (0 = config default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: mosaic search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: mosaic search [flags] <query>")
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query:         queryStr,
		TopK:          *topK,
		MinSimilarity: *minSimilarity,
	}

	var results []*models.SearchResult
	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a second
		// process opening the Bleve and SQLite stores).
		resp, err := searchViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		results = resp
	} else {
		cfg, logger, components := mustInitialize(*configPath)
		defer logger.Sync()
		defer components.Close()
		if req.TopK == 0 {
			req.TopK = cfg.Search.DefaultTopK
		}
		if req.MinSimilarity == 0 {
			req.MinSimilarity = cfg.Search.MinSimilarity
		}
		var err error
		results, err = components.VDB.SearchSimilar(context.Background(), req.Query, req.TopK, req.MinSimilarity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(results) == 0 {
			fmt.Println("No results.")
			return
		}
		for i, res := range results {
			fmt.Printf("%d. %s (%.1f%%)\n", i+1, res.Metadata.Filename, res.SimilarityPercentage)
			fmt.Printf("   file_id: %s  chunk: %d/%d\n", res.Metadata.FileID, res.Metadata.ChunkIndex+1, res.Metadata.TotalChunks)
			fmt.Printf("   %s\n", res.Metadata.ContentPreview)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) ([]*models.SearchResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Results []*models.SearchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Results, nil
}

func runRemove() {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mosaic remove [flags] <file-id-or-filename>")
		os.Exit(1)
	}
	target := fs.Arg(0)

	_, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	doc, err := components.Library.Get(ctx, target)
	if err != nil {
		fmt.Printf("Removal failed: %v\n", err)
		os.Exit(1)
	}
	var removed int
	if doc != nil {
		removed, err = components.Pipeline.RemoveByID(ctx, doc.ID, doc.Filename)
	} else {
		// Not a known file ID; treat the argument as a filename.
		removed, err = components.Pipeline.RemoveByID(ctx, "", target)
		if ids, delErr := components.Library.DeleteByFilename(ctx, target); delErr == nil {
			for _, id := range ids {
				_ = components.Keyword.Delete(ctx, id)
			}
		}
	}
	if err != nil {
		fmt.Printf("Removal failed: %v\n", err)
		os.Exit(1)
	}
	if removed == 0 {
		fmt.Printf("No document found for %s\n", target)
		return
	}
	fmt.Printf("Removed %d chunk(s) for %s\n", removed, target)
}

func runContext() {
	fs := flag.NewFlagSet("context", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	chunkIndex := fs.Int("chunk", 0, "chunk index to highlight")
	contextChunks := fs.Int("window", 0, "neighbor chunks on each side (0 = config default)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mosaic context [flags] <file-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	cfg, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	window := *contextChunks
	if window == 0 {
		window = cfg.Search.ContextChunks
	}
	text := components.VDB.GetDocumentContext(id, *chunkIndex, window)
	if text == "" {
		fmt.Printf("No document found for %s\n", id)
		os.Exit(1)
	}
	fmt.Println(text)
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	stats := map[string]interface{}{}
	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		_, logger, components := mustInitialize(*configPath)
		defer logger.Sync()
		defer components.Close()
		s := components.VDB.Stats()
		stats = map[string]interface{}{
			"total_documents":     s.TotalDocuments,
			"total_chunks":        s.TotalChunks,
			"database_size_mb":    s.DatabaseSizeMB,
			"embedding_dimension": s.EmbeddingDimension,
		}
		if n, err := components.Library.Count(context.Background()); err == nil {
			stats["library_documents"] = n
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, key := range []string{"total_documents", "total_chunks", "library_documents", "database_size_mb", "embedding_dimension"} {
			if v, ok := stats[key]; ok {
				fmt.Printf("%-20s %v\n", key+":", v)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runClear() {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	yes := fs.Bool("yes", false, "skip confirmation")
	_ = fs.Parse(os.Args[2:])

	if !*yes {
		fmt.Print("This deletes every indexed document. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	_, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	if err := components.Pipeline.Clear(context.Background()); err != nil {
		fmt.Printf("Clear failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database cleared.")
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: mosaic watch <add|remove|list> [path]")
		fmt.Println("  mosaic watch add <path>     Add directory to watch")
		fmt.Println("  mosaic watch remove <path>  Remove directory from watch")
		fmt.Println("  mosaic watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: mosaic watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: mosaic watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Embedder embedding.Embedder
	VDB      *vectordb.Manager
	Library  *library.Library
	Keyword  *keyword.Index
	Pipeline *ingest.Pipeline
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Library != nil {
		_ = c.Library.Close()
	}
	if c.Keyword != nil {
		_ = c.Keyword.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		logger.Warn("failed to create embedder, falling back to mock",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	vdbOpts := []vectordb.Option{}
	if debug {
		vdbOpts = append(vdbOpts, vectordb.WithLogger(logger))
	}
	ck := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	vdb, err := vectordb.NewManager(context.Background(), cfg.Storage.DatabasePath, embedder, ck, vdbOpts...)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize vector database: %w", err)
	}

	lib, err := library.Open(cfg.Storage.LibraryPath)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize library: %w", err)
	}

	kw, err := keyword.Open(cfg.Storage.KeywordIndexPath)
	if err != nil {
		_ = lib.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	pipeOpts := []ingest.Option{}
	if debug {
		pipeOpts = append(pipeOpts, ingest.WithLogger(logger))
	}
	pipeline := ingest.New(extract.NewExtractor(), vdb, lib, kw, pipeOpts...)

	return &Components{
		Embedder: embedder,
		VDB:      vdb,
		Library:  lib,
		Keyword:  kw,
		Pipeline: pipeline,
	}, nil
}

// mustInitialize loads config, builds a logger, and initializes components,
// exiting on any failure. Shared by the one-shot subcommands.
func mustInitialize(configPath string) (*config.Config, *zap.Logger, *Components) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func printUsage() {
	fmt.Println(`mosaic - Document analysis backend with semantic search

Usage:
  mosaic server [flags]            Start the HTTP server
  mosaic add [flags] <file>        Ingest a document or directory
  mosaic search [flags] <query>    Semantic search over ingested documents
  mosaic remove [flags] <file-id>  Remove a document
  mosaic context [flags] <file-id> Show a chunk with surrounding context
  mosaic stats [flags]             Show database statistics
  mosaic clear [flags]             Delete all indexed documents
  mosaic watch <add|remove|list>   Manage watched directories
  mosaic version                   Show version
  mosaic help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/mosaic/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string          Config file path (for direct storage mode)
  --server string          Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --top-k int              Number of results (default from config)
  --min-similarity float   Minimum similarity score (default from config)
  --output string          Output format: text or json (default: text)

Examples:
  mosaic server
  mosaic add report.pdf
  mosaic add ~/Documents/papers
  mosaic search "mitochondria energy production"
  mosaic search --output json "climate policy"
  mosaic remove file:3f2a...
  mosaic stats
  mosaic clear --yes
  mosaic watch add ~/Documents/drop`)
}
