package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/editlink"
	"github.com/dgallion1/docsite/internal/pipeline"
	"github.com/dgallion1/docsite/internal/site"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for the documentation site.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	links        editlink.Linker
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		links:        editlink.New(cfg.EditRepoURL, cfg.EditBranch),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/search.json", s.handleSearchIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/libraries", s.handleListLibraries)
		r.Get("/libraries/{name}", s.handleGetLibrary)
		r.Get("/libraries/{name}/related", s.handleRelatedLibraries)
		r.Get("/libraries/{name}/concepts/*", s.handleGetConcept)
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{category}", s.handleGetCategory)
		r.Get("/stats", s.handleStats)

		r.Get("/search", s.handleSearch)

		r.Get("/blog", s.handleListPosts)
		r.Get("/blog/{slug}", s.handleGetPost)
		r.Get("/changelog", s.handleChangelog)

		r.Get("/edit-url", s.handleEditURL)

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.AdminAPIKey, s.log))

			r.Post("/rebuild", s.handleRebuild)
			r.Get("/rebuild/{jobID}/status", s.handleRebuildStatus)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.orchestrator.Snapshot()
	status := "ok"
	if snap == nil {
		status = "building"
	}
	body := map[string]any{
		"status":      status,
		"queue_depth": s.orchestrator.QueueDepth(),
	}
	if snap != nil {
		body["built_at"] = snap.BuiltAt
		body["concepts"] = snap.ConceptCount()
	}
	writeJSON(w, http.StatusOK, body)
}

// snapshot returns the live site or writes 503 while the first build runs.
func (s *Server) snapshot(w http.ResponseWriter) *site.Snapshot {
	snap := s.orchestrator.Snapshot()
	if snap == nil {
		jsonError(w, "site is still building", http.StatusServiceUnavailable)
	}
	return snap
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
