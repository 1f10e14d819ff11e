package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/contentstore"
	"github.com/go-chi/chi/v5"
)

type breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type conceptResponse struct {
	contentstore.Rendered
	LibrarySlug string       `json:"librarySlug"`
	EditURL     string       `json:"editUrl,omitempty"`
	Breadcrumbs []breadcrumb `json:"breadcrumbs"`
}

// handleGetConcept serves a rendered concept page. Concept paths may
// contain slashes.
func (s *Server) handleGetConcept(w http.ResponseWriter, r *http.Request) {
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
	conceptPath := strings.Trim(chi.URLParam(r, "*"), "/")
	if _, ok := lib.FindConcept(conceptPath); !ok {
		jsonError(w, "concept not found", http.StatusNotFound)
		return
	}
	rendered, ok := snap.Concept(lib.Name, conceptPath)
	if !ok {
		s.log.Error("concept missing from snapshot", "library", lib.Name, "path", conceptPath)
		jsonError(w, "concept not rendered", http.StatusInternalServerError)
		return
	}

	slug := catalog.Slug(lib.Name)
	libHref := "/docs/library/" + slug
	editURL, _ := s.links.EditURL("/docs/library/" + lib.Name + "/concept/" + conceptPath)

	writeJSON(w, http.StatusOK, conceptResponse{
		Rendered:    rendered,
		LibrarySlug: slug,
		EditURL:     editURL,
		Breadcrumbs: []breadcrumb{
			{Label: "Docs", Href: "/docs"},
			{Label: lib.Name, Href: libHref},
			{Label: rendered.Title, Href: libHref + "/concept/" + conceptPath},
		},
	})
}
