package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/go-chi/chi/v5"
)

const defaultRelatedLimit = 3

type libraryResponse struct {
	catalog.Library
	Slug             string `json:"slug"`
	DisplayVersion   string `json:"displayVersion"`
	DisplayUpdatedAt string `json:"displayLastUpdated"`
	EditURL          string `json:"editUrl,omitempty"`
}

func (s *Server) libraryResponse(lib catalog.Library) libraryResponse {
	slug := catalog.Slug(lib.Name)
	editURL, _ := s.links.EditURL("/docs/library/" + slug)
	return libraryResponse{
		Library:          lib,
		Slug:             slug,
		DisplayVersion:   catalog.FormatVersion(lib.Version),
		DisplayUpdatedAt: catalog.FormatLastUpdated(lib.LastUpdated),
		EditURL:          editURL,
	}
}

func libraryNotFound(w http.ResponseWriter, slug string) {
	jsonError(w, fmt.Sprintf("library %q not found", catalog.NameFromSlug(slug)), http.StatusNotFound)
}

func (s *Server) libraryList(libs []catalog.Library) []libraryResponse {
	out := make([]libraryResponse, 0, len(libs))
	for _, lib := range libs {
		out = append(out, s.libraryResponse(lib))
	}
	return out
}

// handleListLibraries lists every library, or those matching ?q=.
func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	libs := snap.Catalog.All()
	if q := r.URL.Query().Get("q"); q != "" {
		libs = snap.Catalog.Search(q)
	}
	writeJSON(w, http.StatusOK, map[string]any{"libraries": s.libraryList(libs)})
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	name := chi.URLParam(r, "name")
	lib, ok := snap.Catalog.FindByName(name)
	if !ok {
		libraryNotFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, s.libraryResponse(lib))
}

func (s *Server) handleRelatedLibraries(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	name := chi.URLParam(r, "name")
	lib, ok := snap.Catalog.FindByName(name)
	if !ok {
		libraryNotFound(w, name)
		return
	}
	limit := defaultRelatedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"libraries": s.libraryList(snap.Catalog.Related(lib, limit))})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": snap.Catalog.Stats().Categories})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	category := chi.URLParam(r, "category")
	libs := snap.Catalog.ByCategory(category)
	if libs == nil {
		jsonError(w, "category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":  category,
		"libraries": s.libraryList(libs),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":      snap.Catalog.Stats(),
		"concepts":     snap.ConceptCount(),
		"posts":        len(snap.Blog.Posts()),
		"topLibraries": s.libraryList(snap.Catalog.TopByStars(5)),
		"builtAt":      snap.BuiltAt,
	})
}
