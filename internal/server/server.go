// Package server provides a local preview server for the gallery with
// live reload support.
package server

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options contains the configurable settings for the preview server.
type Options struct {
	Port       int
	Bind       string
	SiteRoot   string // directory containing the gallery page and photos
	LiveReload bool
}

// Server serves the gallery directory and pushes reload notifications to
// connected browsers when the page or the photos change.
type Server struct {
	options Options
	hub     *Hub
	watcher *Watcher
	server  *http.Server
}

// New creates a preview Server with the given options.
func New(opts Options) *Server {
	return &Server{
		options: opts,
		hub:     NewHub(),
	}
}

// Start starts the HTTP server, WebSocket hub, and file watcher. It blocks
// until the provided context is cancelled or the server is stopped.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/__darkroom/ws", s.hub.HandleWS)
	mux.HandleFunc("/", s.handleRequest)

	addr := fmt.Sprintf("%s:%d", s.options.Bind, s.options.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
			}
		}()
	}

	fmt.Printf("Previewing gallery at http://%s:%d\n", s.options.Bind, s.options.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// SetWatcher configures the file watcher for the server.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// NotifyReload sends a reload message to all connected browsers.
func (s *Server) NotifyReload() {
	s.hub.Broadcast([]byte("reload"))
}

// handleRequest serves files from the site root, injecting the live reload
// script into HTML responses.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	filePath := s.resolveFilePath(r.URL.Path)
	if filePath == "" {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}

	ext := filepath.Ext(filePath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if s.options.LiveReload && (ext == ".html" || ext == ".htm") {
		data = InjectLiveReload(data, s.options.Port)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// resolveFilePath maps a URL path to a file under the site root, falling
// back to index.html for directory requests. Traversal outside the root is
// rejected.
func (s *Server) resolveFilePath(urlPath string) string {
	cleaned := filepath.Clean(urlPath)
	if strings.Contains(cleaned, "..") {
		return ""
	}

	fullPath := filepath.Join(s.options.SiteRoot, filepath.FromSlash(cleaned))
	info, err := os.Stat(fullPath)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		return fullPath
	}

	indexPath := filepath.Join(fullPath, "index.html")
	if _, err := os.Stat(indexPath); err == nil {
		return indexPath
	}
	return ""
}
