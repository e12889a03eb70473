// Package web provides an HTTP server for browsing a moneytree book.
//
// The server renders the account-group and category hierarchies with their
// balances as HTML and exposes the same data as JSON endpoints. The book
// file is watched for changes; connected browsers reload through a
// Server-Sent Events stream.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/robinvdvleuten/moneytree/ledger"
	"github.com/robinvdvleuten/moneytree/loader"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

type Server struct {
	Port      int
	Host      string
	Version   string
	CommitSHA string

	mu       sync.RWMutex
	book     *ledger.Book
	snapshot *ast.Snapshot
	loadErr  error
	bookFile string // Absolute path of the book file

	// inputFile is the file path passed to New(), used only for initial
	// loading. After loading, bookFile contains the resolved absolute path.
	inputFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, bookFile string) *Server {
	return NewWithVersion(port, bookFile, "", "")
}

func NewWithVersion(port int, bookFile, version, commitSHA string) *Server {
	return &Server{
		Port:      port,
		Host:      "127.0.0.1",
		Version:   version,
		CommitSHA: commitSHA,
		inputFile: bookFile,
	}
}

func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if s.inputFile == "" {
		return fmt.Errorf("book file is required")
	}

	s.sseClients = make(map[chan string]struct{})

	absFile, err := filepath.Abs(s.inputFile)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	s.bookFile = absFile

	loadTimer := timer.Child(fmt.Sprintf("web.load_book %s", filepath.Base(s.bookFile)))
	s.reloadBook(ctx)
	loadTimer.End()

	if err := s.startWatcher(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return http.ListenAndServe(addr, s.router())
}

func (s *Server) router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/categories", s.handleGetCategories)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// reloadBook loads or reloads the book from disk. A failed load keeps the
// previous book so the UI stays functional; the error is surfaced alongside.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadBook(ctx context.Context) {
	book, snapshot, err := loader.New().Load(ctx, s.bookFile)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = err
	if err == nil {
		s.book = book
		s.snapshot = snapshot
	}
}

// startWatcher watches the book file, reloading and broadcasting SSE events
// when it changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(s.bookFile); err != nil {
		log.Printf("Warning: failed to watch %s: %v", s.bookFile, err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// React to write/create/remove/rename events
			// (Remove/Rename are common in atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange reloads the book and notifies connected clients.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	s.reloadBook(ctx)

	// Re-add the watch; atomic saves replace the inode.
	if err := watcher.Add(s.bookFile); err != nil {
		log.Printf("Warning: failed to watch %s: %v", s.bookFile, err)
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
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
