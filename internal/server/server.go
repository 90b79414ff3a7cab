// Package server exposes loaded UML documents over a read-only JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// Server holds the documents being served and the router over them.
type Server struct {
	types.Logger
	mu     sync.RWMutex
	docs   map[string]*uml.Document
	router *gin.Engine
}

// New creates a server with no documents. A nil logger disables request
// logging.
func New(logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	s := &Server{
		Logger: types.Logger{L: types.Component(logger, "server")},
		docs:   make(map[string]*uml.Document),
		router: r,
	}
	r.Use(gin.Recovery(), s.logRequests)
	s.setupRoutes()
	return s
}

// Set adds doc under id, replacing any document already stored there.
func (s *Server) Set(id string, doc *uml.Document) {
	s.mu.Lock()
	s.docs[id] = doc
	s.mu.Unlock()
	s.Log(slog.LevelDebug, "document set", slog.String("id", id), slog.String("name", doc.Name))
}

// Remove drops the document stored under id and reports whether it existed.
func (s *Server) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok
}

// IDs returns the stored document ids in sorted order.
func (s *Server) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Server) document(id string) (*uml.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log(slog.LevelInfo, "listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/v1")
	v1.GET("/documents", s.handleDocuments)
	v1.GET("/documents/:doc", s.handleDocument)
	v1.GET("/documents/:doc/packages", s.handlePackages)
	v1.GET("/documents/:doc/classes", s.handleClasses)
	v1.GET("/documents/:doc/classes/:id", s.handleClass)
	v1.GET("/documents/:doc/enums", s.handleEnums)
	v1.GET("/documents/:doc/diagnostics", s.handleDiagnostics)
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	if !s.Enabled(slog.LevelDebug) {
		return
	}
	s.Log(slog.LevelDebug, "request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("elapsed", time.Since(start)))
}
