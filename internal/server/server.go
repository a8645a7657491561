// Package server provides the HTTP API for Mosaic.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/audio"
	"github.com/mosaic-docs/mosaic/internal/config"
	"github.com/mosaic-docs/mosaic/internal/extract"
	"github.com/mosaic-docs/mosaic/internal/ingest"
	"github.com/mosaic-docs/mosaic/internal/insights"
	"github.com/mosaic-docs/mosaic/internal/keyword"
	"github.com/mosaic-docs/mosaic/internal/library"
	"github.com/mosaic-docs/mosaic/internal/vectordb"
	"github.com/mosaic-docs/mosaic/internal/watcher"
)

// Deps holds the server's dependencies. Insights, Synth, and Watch are
// optional; endpoints backed by a missing dependency return 503 or 501.
type Deps struct {
	VDB      *vectordb.Manager
	Library  *library.Library
	Keyword  *keyword.Index
	Pipeline *ingest.Pipeline
	Insights *insights.Manager
	Synth    *audio.Synthesizer
	Watch    *watcher.Watcher
	Config   *config.Config
	// ConfigPath, when set, is where watch directory changes are persisted.
	ConfigPath string
	Logger     *zap.Logger
}

// Server is the HTTP server for the Mosaic API.
type Server struct {
	vdb       *vectordb.Manager
	library   *library.Library
	keyword   *keyword.Index
	pipeline  *ingest.Pipeline
	extractor *extract.Extractor
	insights  *insights.Manager
	synth     *audio.Synthesizer
	watch     *watcher.Watcher

	cfg        *config.Config
	configPath string
	cfgMu      sync.Mutex

	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		vdb:        deps.VDB,
		library:    deps.Library,
		keyword:    deps.Keyword,
		pipeline:   deps.Pipeline,
		extractor:  extract.NewExtractor(),
		insights:   deps.Insights,
		synth:      deps.Synth,
		watch:      deps.Watch,
		cfg:        deps.Config,
		configPath: deps.ConfigPath,
		logger:     logger,
	}
}

// Router builds the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/documents", s.handleAddDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/keyword-search", s.handleKeywordSearch)
	r.Post("/api/v1/context", s.handleContext)
	r.Get("/api/v1/stats", s.handleStats)
	r.Delete("/api/v1/database", s.handleClearDatabase)

	r.Post("/api/v1/similarity-analysis", s.handleSimilarityAnalysis)
	r.Post("/api/v1/insights", s.handleInsights)
	r.Post("/api/v1/summary", s.handleSummary)
	r.Post("/api/v1/podcast", s.handlePodcastScript)
	r.Post("/api/v1/podcast/audio", s.handlePodcastAudio)

	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)

	r.Get("/health", s.handleHealth)

	if s.cfg.Server.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
