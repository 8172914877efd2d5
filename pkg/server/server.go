// Package server exposes the comparison engine over HTTP: a minimal upload
// page and JSON endpoints that accept two EPUB files and return either a full
// comparison report or per-paragraph novelty verdicts.
package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coolbeans/epubdiff/pkg/book"
	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/config"
	"github.com/coolbeans/epubdiff/pkg/epub"
	"github.com/coolbeans/epubdiff/pkg/novelty"
)

// maxUploadBytes bounds one uploaded EPUB.
const maxUploadBytes = 100 << 20

// Server is the HTTP front end of the comparison engine.
type Server struct {
	log    *zap.SugaredLogger
	store  *config.Store
	engine *gin.Engine
}

// New creates the server with its routes registered.
func New(log *zap.SugaredLogger, store *config.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		log:    log,
		store:  store,
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/api/compare", s.handleCompare)
	s.engine.POST("/api/novelty", s.handleNovelty)

	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Infow("listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCompare(c *gin.Context) {
	runID := uuid.NewString()

	oldChapters, oldName, ok := s.extractUpload(c, "old")
	if !ok {
		return
	}
	newChapters, newName, ok := s.extractUpload(c, "new")
	if !ok {
		return
	}

	profile := s.store.Current()
	report, err := compare.Books(c.Request.Context(), oldChapters, newChapters, profile.Options())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "comparison failed", err)
		return
	}
	report.OldName = oldName
	report.NewName = newName

	s.log.Infow("compared",
		"run_id", runID,
		"old", oldName,
		"new", newName,
		"added", report.TotalAdded,
		"deleted", report.TotalDeleted,
		"modified", report.TotalModified,
	)

	c.JSON(http.StatusOK, gin.H{"id": runID, "report": report})
}

func (s *Server) handleNovelty(c *gin.Context) {
	runID := uuid.NewString()

	oldChapters, oldName, ok := s.extractUpload(c, "old")
	if !ok {
		return
	}
	newChapters, newName, ok := s.extractUpload(c, "new")
	if !ok {
		return
	}

	profile := s.store.Current()
	baseline := epub.FlattenParagraphs(oldChapters)
	revised := epub.FlattenParagraphs(newChapters)

	index := novelty.NewIndex(baseline, profile.Options())
	results := index.ClassifyAll(revised)

	newCount := 0
	for _, r := range results {
		if r.IsNew {
			newCount++
		}
	}
	if profile.MaxRows > 0 && len(results) > profile.MaxRows {
		results = results[:profile.MaxRows]
	}

	s.log.Infow("classified",
		"run_id", runID,
		"old", oldName,
		"new", newName,
		"paragraphs", len(revised),
		"new_paragraphs", newCount,
	)

	c.JSON(http.StatusOK, gin.H{
		"id":        runID,
		"total":     len(revised),
		"new_count": newCount,
		"results":   results,
	})
}

// extractUpload reads one multipart EPUB field and extracts its chapters.
// On failure it writes the error response and returns ok=false.
func (s *Server) extractUpload(c *gin.Context, field string) ([]book.Chapter, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("missing %q file field", field), err)
		return nil, "", false
	}

	data, err := readUpload(header)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("failed to read %q upload", field), err)
		return nil, "", false
	}

	chapters, err := epub.ExtractChaptersFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, fmt.Sprintf("failed to extract %q epub", field), err)
		return nil, "", false
	}

	return chapters, header.Filename, true
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > maxUploadBytes {
		return nil, fmt.Errorf("upload too large: %d bytes (max %d)", header.Size, maxUploadBytes)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

func (s *Server) respondError(c *gin.Context, status int, msg string, err error) {
	s.log.Warnw(msg, "error", err)
	c.JSON(status, gin.H{"error": msg})
}
