package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/docsite/internal/blog"
	"github.com/dgallion1/docsite/internal/editlink"
	"github.com/go-chi/chi/v5"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxSearchLimit)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": snap.Index.Query(q, limit),
	})
}

// handleSearchIndex serves the whole index for client-side search.
func (s *Server) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cfg.CacheMaxAge.Seconds())))
	writeJSON(w, http.StatusOK, snap.Index.Entries())
}

type postSummary struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	ReadTime string    `json:"readTime"`
	Excerpt  string    `json:"excerpt"`
	Tags     []string  `json:"tags"`
}

func summarize(p blog.Post) postSummary {
	return postSummary{
		Slug:     p.Slug,
		Title:    p.Title,
		Author:   p.Author,
		Date:     p.Date,
		ReadTime: p.ReadTime,
		Excerpt:  p.Excerpt,
		Tags:     p.Tags,
	}
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	posts := snap.Blog.Posts()
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, summarize(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	post, ok := snap.Blog.Post(chi.URLParam(r, "slug"))
	if !ok {
		jsonError(w, "post not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handleChangelog lists release notes, optionally filtered by ?category=.
func (s *Server) handleChangelog(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	entries := snap.Changelog.ByCategory(r.URL.Query().Get("category"))
	if entries == nil {
		entries = []blog.ChangelogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleEditURL(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("path")
	if route == "" {
		jsonError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	file, ok := editlink.FilePath(route)
	if !ok {
		jsonError(w, "no source file for route", http.StatusNotFound)
		return
	}
	editURL, _ := s.links.EditURL(route)
	writeJSON(w, http.StatusOK, map[string]string{
		"path":    route,
		"file":    file,
		"editUrl": editURL,
	})
}
