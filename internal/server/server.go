// Package server provides the HTTP API for classifying project
// descriptions and browsing evaluation history.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/jceal/stormwater-classifier/internal/classifier"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// RowClassifier is the classification surface the API exposes.
type RowClassifier interface {
	ClassifyWithExplanation(text string) (classifier.Labels, classifier.Intermediates, error)
}

// Config holds configuration for the API server.
type Config struct {
	Classifier RowClassifier
	Store      state.Store
	Addr       string
	Watch      bool
	ModelsDir  string
	Logger     *slog.Logger

	// Reload rebuilds the classifier after model files change. Only
	// used when Watch is set.
	Reload func() (RowClassifier, error)
}

// Server is the stormwater HTTP API server.
type Server struct {
	mu         sync.RWMutex
	classifier RowClassifier

	store     state.Store
	addr      string
	watch     bool
	modelsDir string
	logger    *slog.Logger
	reload    func() (RowClassifier, error)
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		classifier: cfg.Classifier,
		store:      cfg.Store,
		addr:       cfg.Addr,
		watch:      cfg.Watch,
		modelsDir:  cfg.ModelsDir,
		logger:     logger,
		reload:     cfg.Reload,
	}
}

// Handler builds the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Post("/api/classify", s.handleClassify)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}/metrics", s.handleRunMetrics)
	r.Get("/healthz", s.handleHealth)

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchModels(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// current returns the active classifier.
func (s *Server) current() RowClassifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifier
}

// swap replaces the active classifier.
func (s *Server) swap(c RowClassifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifier = c
}

// watchModels reloads the classifier when model files change.
func (s *Server) watchModels(ctx context.Context) error {
	if s.reload == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.modelsDir); err != nil {
		s.logger.Error("failed to watch models directory", "error", err)
		// Continue without watching
		<-ctx.Done()
		return nil
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".json" && ext != ".yaml" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("model files changed, reloading", "file", event.Name)

				c, err := s.reload()
				if err != nil {
					s.logger.Error("model reload failed", "error", err)
					return
				}
				s.swap(c)
				s.logger.Info("models reloaded")
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
