// Package server exposes the troubleshooting pipeline, document ingestion,
// and the asset and gap registries over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/docsource"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/indexer"
	"github.com/fieldserve/fieldassist/internal/pipeline"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

// Responder handles one troubleshooting turn.
type Responder interface {
	Respond(ctx context.Context, req pipeline.Request) pipeline.Reply
}

// DocumentIndexer ingests documents into the retrieval corpora.
type DocumentIndexer interface {
	IndexShared(ctx context.Context, doc *docsource.Document) (*indexer.IndexResult, error)
	IndexScoped(ctx context.Context, scope vectordb.Scope, doc *docsource.Document) (*indexer.IndexResult, error)
}

// Server is the fieldassist HTTP server.
type Server struct {
	cfg        config.ServerConfig
	assistant  Responder
	indexer    DocumentIndexer
	assets     *assets.Store
	gaps       *gaps.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. assistant and indexer are required; assets and gaps
// may be nil, in which case their routes return 404.
func New(cfg config.ServerConfig, assistant Responder, ix DocumentIndexer, assetStore *assets.Store, gapStore *gaps.Store) *Server {
	s := &Server{
		cfg:       cfg,
		assistant: assistant,
		indexer:   ix,
		assets:    assetStore,
		gaps:      gapStore,
	}

	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.registerRoutes(r)
	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("fieldassist server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
