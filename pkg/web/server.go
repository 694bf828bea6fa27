package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/pubsub"
)

const generationStatusTopic = "generation_status"

// Server serves the generated API tree as static files and exposes live
// query endpoints backed by the in-memory relationship graph. In watch mode
// the builder is swapped after each regeneration; reads and swaps are
// serialized through the mutex.
type Server struct {
	router    *mux.Router
	apiDir    string
	publisher *pubsub.Publisher

	mu      sync.RWMutex
	builder *graph.Builder
}

// NewServer creates a server over the generated tree at apiDir. The builder
// may be nil until the first pipeline run completes.
func NewServer(apiDir string) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		apiDir:    apiDir,
		publisher: pubsub.NewPublisher(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(logging.RequestIDMiddleware)

	live := s.router.PathPrefix("/api/v1/live").Subrouter()
	live.HandleFunc("/indicators/{id}/tools", s.handleToolsForIndicator).Methods("GET")
	live.HandleFunc("/tools/{id}/indicators", s.handleIndicatorsForTool).Methods("GET")
	live.HandleFunc("/dimensions/{id}/indicators", s.handleIndicatorsForDimension).Methods("GET")
	live.HandleFunc("/graph", s.handleGraph).Methods("GET")
	live.HandleFunc("/connectivity", s.handleConnectivity).Methods("GET")

	s.router.HandleFunc("/api/subscribe/{topic}", s.handleSubscribe).Methods("GET")

	// Static generated tree, both under its canonical prefix and at the root
	// so relative _links resolve when browsing locally.
	fileServer := http.FileServer(http.Dir(s.apiDir))
	s.router.PathPrefix("/api/v1/").Handler(http.StripPrefix("/api/v1/", fileServer))
	s.router.PathPrefix("/").Handler(fileServer)
}

// SetBuilder installs a freshly built graph for the live endpoints.
func (s *Server) SetBuilder(b *graph.Builder) {
	s.mu.Lock()
	s.builder = b
	s.mu.Unlock()
	logging.Info("live graph updated")
}

// PublishGenerationStatus emits a pipeline progress event to subscribers.
func (s *Server) PublishGenerationStatus(state, message string, step, total int) {
	err := s.publisher.Publish(generationStatusTopic, "status", pubsub.GenerationStatus{
		State:   state,
		Message: message,
		Step:    step,
		Total:   total,
	})
	if err != nil {
		logging.Warn("failed to publish generation status", "error", err)
	}
}

// Start listens on the given port and blocks until the server stops.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting server", "addr", addr, "apiDir", s.apiDir)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleToolsForIndicator(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	b := s.builder
	s.mu.RUnlock()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
		return
	}

	if _, ok := b.Indicator(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("indicator not found: %s", id))
		return
	}
	tools := b.ToolsForIndicator(id)
	writeJSON(w, map[string]any{
		"indicator": id,
		"tools":     tools,
		"count":     len(tools),
	})
}

func (s *Server) handleIndicatorsForTool(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	b := s.builder
	s.mu.RUnlock()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
		return
	}

	if _, ok := b.Tool(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("tool not found: %s", id))
		return
	}
	indicators := b.IndicatorsForTool(id)
	writeJSON(w, map[string]any{
		"tool":       id,
		"indicators": indicators,
		"count":      len(indicators),
	})
}

func (s *Server) handleIndicatorsForDimension(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	b := s.builder
	s.mu.RUnlock()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
		return
	}

	if _, ok := b.Dimension(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("dimension not found: %s", id))
		return
	}
	indicators := b.IndicatorsForDimension(id)
	writeJSON(w, map[string]any{
		"dimension":  id,
		"indicators": indicators,
		"count":      len(indicators),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	b := s.builder
	s.mu.RUnlock()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
		return
	}
	writeJSON(w, b.Export())
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	b := s.builder
	s.mu.RUnlock()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
		return
	}
	writeJSON(w, b.Connectivity())
}

// handleSubscribe streams topic events over Server-Sent Events. The stream
// stays open until the client disconnects.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, ": connected to %s\n\n", topic)
	flusher.Flush()

	logging.InfoContext(r.Context(), "client subscribed", "topic", topic)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.Warn("failed to write event", "topic", topic, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// Close releases the server's publisher.
func (s *Server) Close() error {
	return s.publisher.Close()
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":  message,
		"status": status,
	})
}

// EnsureDir creates the API directory before serving, so a server started
// ahead of the first pipeline run does not 404 on its own root.
func EnsureDir(apiDir string) error {
	if err := os.MkdirAll(filepath.Clean(apiDir), 0o755); err != nil {
		return fmt.Errorf("creating api dir: %w", err)
	}
	return nil
}
