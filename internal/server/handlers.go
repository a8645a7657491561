package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/config"
	"github.com/mosaic-docs/mosaic/internal/fileid"
	"github.com/mosaic-docs/mosaic/internal/models"
)

// maxUploadBytes caps multipart document uploads.
const maxUploadBytes = 64 << 20

// handleAddDocument ingests a document. Multipart requests carry a raw file
// under the "file" field; JSON requests carry extracted text directly.
func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.handleUpload(w, r)
		return
	}

	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	if input.Filename == "" {
		s.respondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if input.FileID == "" {
		input.FileID = fileid.FromUpload()
	}
	s.logger.Debug("add document request",
		zap.String("file_id", input.FileID), zap.String("filename", input.Filename))
	chunks, err := s.pipeline.IngestContent(r.Context(), input.Content, input.Filename, input.FileID, "", input.Extra)
	if err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"file_id":  input.FileID,
		"filename": input.Filename,
		"chunks":   chunks,
		"status":   "indexed",
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	content, err := s.extractor.ExtractBytes(data, filepath.Ext(header.Filename))
	if err != nil {
		s.logger.Error("extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := fileid.FromUpload()
	s.logger.Debug("upload request", zap.String("file_id", id), zap.String("filename", header.Filename))
	chunks, err := s.pipeline.IngestContent(r.Context(), content, header.Filename, id, "", nil)
	if err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"file_id":  id,
		"filename": header.Filename,
		"chunks":   chunks,
		"status":   "indexed",
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.library.List(r.Context())
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.library.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("library lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := ""
	if doc != nil {
		filename = doc.Filename
	}
	s.logger.Debug("delete document request", zap.String("file_id", id))
	removed, err := s.pipeline.RemoveByID(r.Context(), id, filename)
	if err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Removing an unknown document is not an error; removed_chunks is 0.
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"file_id":        id,
		"removed_chunks": removed,
		"status":         "deleted",
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopK == 0 {
		req.TopK = s.cfg.Search.DefaultTopK
	}
	if req.MinSimilarity == 0 {
		req.MinSimilarity = s.cfg.Search.MinSimilarity
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TopK > s.cfg.Search.MaxTopK {
		req.TopK = s.cfg.Search.MaxTopK
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("top_k", req.TopK))
	results, err := s.vdb.SearchSimilar(r.Context(), req.Query, req.TopK, req.MinSimilarity)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}

type keywordSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	var req keywordSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	if req.Limit <= 0 {
		req.Limit = s.cfg.Search.DefaultTopK
	}
	hits, err := s.keyword.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": hits,
		"count":   len(hits),
	})
}

type contextRequest struct {
	FileID        string `json:"file_id"`
	ChunkIndex    int    `json:"chunk_index"`
	ContextChunks *int   `json:"context_chunks,omitempty"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileID == "" {
		s.respondError(w, http.StatusBadRequest, "file_id is required")
		return
	}
	contextChunks := s.cfg.Search.ContextChunks
	if req.ContextChunks != nil {
		contextChunks = *req.ContextChunks
	}
	text := s.vdb.GetDocumentContext(req.FileID, req.ChunkIndex, contextChunks)
	if text == "" {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"file_id": req.FileID,
		"context": text,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.vdb.Stats()
	resp := map[string]interface{}{
		"total_documents":     stats.TotalDocuments,
		"total_chunks":        stats.TotalChunks,
		"database_size_mb":    stats.DatabaseSizeMB,
		"embedding_dimension": stats.EmbeddingDimension,
		"last_updated":        stats.LastUpdated,
	}
	if n, err := s.library.Count(r.Context()); err == nil {
		resp["library_documents"] = n
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearDatabase(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("clear database request")
	if err := s.pipeline.Clear(r.Context()); err != nil {
		s.logger.Error("clear database failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type selectionRequest struct {
	SelectedText  string  `json:"selected_text"`
	TopK          int     `json:"top_k,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

// relatedResults runs a semantic search for the selection using configured
// defaults for unset parameters.
func (s *Server) relatedResults(r *http.Request, req *selectionRequest) ([]*models.SearchResult, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.Search.DefaultTopK
	}
	minSim := req.MinSimilarity
	if minSim == 0 {
		minSim = s.cfg.Search.MinSimilarity
	}
	return s.vdb.SearchSimilar(r.Context(), req.SelectedText, topK, minSim)
}

func (s *Server) decodeSelection(w http.ResponseWriter, r *http.Request) (*selectionRequest, bool) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.SelectedText == "" {
		s.respondError(w, http.StatusBadRequest, "selected_text is required")
		return nil, false
	}
	return &req, true
}

func (s *Server) handleSimilarityAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}
	results, err := s.relatedResults(r, req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	analysis, err := s.insights.SimilarityAnalysis(r.Context(), req.SelectedText, results)
	if err != nil {
		s.logger.Error("similarity analysis failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"analysis":          analysis,
		"related_documents": results,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}
	results, err := s.relatedResults(r, req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var filenames []string
	if docs, err := s.library.List(r.Context()); err == nil {
		for _, d := range docs {
			filenames = append(filenames, d.Filename)
		}
	}
	insight, err := s.insights.Insights(r.Context(), req.SelectedText, results, filenames)
	if err != nil {
		s.logger.Error("insight generation failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"insights":          insight,
		"related_documents": results,
	})
}

type summaryRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	summary, err := s.insights.QuickSummary(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("summary failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handlePodcastScript(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}
	results, err := s.relatedResults(r, req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	script, err := s.insights.PodcastScript(r.Context(), req.SelectedText, results)
	if err != nil {
		s.logger.Error("podcast script generation failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"script": script})
}

func (s *Server) handlePodcastAudio(w http.ResponseWriter, r *http.Request) {
	if s.synth == nil {
		s.respondError(w, http.StatusServiceUnavailable, "speech synthesis is not configured")
		return
	}
	var script models.PodcastScript
	if err := json.NewDecoder(r.Body).Decode(&script); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(script.Segments) == 0 {
		s.respondError(w, http.StatusBadRequest, "script has no segments")
		return
	}
	out, err := s.synth.Synthesize(r.Context(), &script)
	if err != nil {
		s.logger.Error("podcast synthesis failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.cfg == nil {
		return
	}
	s.cfgMu.Lock()
	s.cfg.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.cfg)
	s.cfgMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
