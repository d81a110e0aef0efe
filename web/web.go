// Package web provides the HTTP API behind the forecast dashboard.
//
// The server exposes read-only JSON endpoints for account lists, forecast
// balance series, chart groupings and the emergency-fund runway report.
// Every forecast request builds a fresh projector from the latest parsed
// document, so concurrent requests never share a mutable registry.
//
// SECURITY WARNING: the server has no authentication and binds to
// localhost only; do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"

	"github.com/funance/funance/spec"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	WatchEnabled bool

	specFile string
	logger   *log.Logger

	mu  sync.RWMutex
	doc *spec.File

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

// New creates a server for the given forecast document path.
func New(port int, specFile string) *Server {
	return &Server{
		Port:     port,
		Host:     "127.0.0.1",
		specFile: specFile,
		logger: &log.Logger{
			Level:  log.InfoLevel,
			Writer: &log.ConsoleWriter{ColorOutput: true},
		},
	}
}

// Start loads the document, optionally starts the file watcher, and
// serves until the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.specFile == "" {
		return fmt.Errorf("forecast document is required")
	}

	s.sseClients = make(map[chan string]struct{})

	if err := s.reloadDocument(); err != nil {
		return fmt.Errorf("failed to load forecast document: %w", err)
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	s.logger.Info().Str("addr", addr).Str("file", s.specFile).Msg("serving forecast dashboard api")
	return http.ListenAndServe(addr, s.router())
}

func (s *Server) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/forecast", s.handleGetForecast)
	mux.HandleFunc("GET /api/charts", s.handleGetCharts)
	mux.HandleFunc("GET /api/runway", s.handleGetRunway)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	return mux
}

// document returns the currently loaded forecast document.
func (s *Server) document() *spec.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// reloadDocument parses the document from disk and swaps it in.
func (s *Server) reloadDocument() error {
	doc, err := spec.Load(s.specFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// startWatcher watches the document file and reloads on change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(s.specFile); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.specFile, err)
	}

	go s.runWatcher(ctx, watcher)
	return nil
}

// runWatcher processes file system events with debouncing. Editors often
// write files in multiple steps, so events within the debounce window
// collapse into one reload.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Remove/Rename happen during atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the document and notifies SSE clients. A parse
// failure keeps the previous document so the dashboard stays usable while
// the file is mid-edit.
func (s *Server) handleFileChange(watcher *fsnotify.Watcher) {
	if err := s.reloadDocument(); err != nil {
		s.logger.Warn().Err(err).Str("file", s.specFile).Msg("failed to reload forecast document")
	} else {
		s.logger.Info().Str("file", s.specFile).Msg("forecast document reloaded")
		s.broadcast("reload")
	}

	// Re-add the watch; atomic saves replace the inode.
	if err := watcher.Add(s.specFile); err != nil {
		s.logger.Warn().Err(err).Str("file", s.specFile).Msg("failed to re-watch document")
	}
}

// handleSSE handles Server-Sent Events connections for reload updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
		close(clientChan)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
