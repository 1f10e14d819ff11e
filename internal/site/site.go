// Package site holds the immutable, fully built content of the
// documentation site that the HTTP layer serves from.
package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dgallion1/docsite/internal/blog"
	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/contentstore"
	"github.com/dgallion1/docsite/internal/search"
)

// Sources locates the content a snapshot is built from.
type Sources struct {
	CatalogPath   string
	ContentDir    string
	BlogDir       string
	ChangelogPath string
}

// Snapshot is one consistent build of the site. It is never mutated after
// the build that produced it completes.
type Snapshot struct {
	Catalog   *catalog.Catalog
	Store     *contentstore.Store
	Blog      *blog.Blog
	Changelog *blog.Changelog
	Index     *search.Index
	BuiltAt   time.Time

	concepts map[string]contentstore.Rendered
	hashes   map[string]string
}

// New returns an empty snapshot ready to receive rendered concepts.
func New() *Snapshot {
	return &Snapshot{
		concepts: make(map[string]contentstore.Rendered),
		hashes:   make(map[string]string),
	}
}

// ConceptKey identifies a concept page within a snapshot.
func ConceptKey(libraryName, conceptPath string) string {
	return catalog.Slug(libraryName) + "/" + conceptPath
}

// PutConcept records a rendered concept and the hash of its inputs.
func (s *Snapshot) PutConcept(r contentstore.Rendered, hash string) {
	key := ConceptKey(r.Library, r.Path)
	s.concepts[key] = r
	s.hashes[key] = hash
}

// Concept returns the rendered concept for a library name or slug.
func (s *Snapshot) Concept(libraryName, conceptPath string) (contentstore.Rendered, bool) {
	if s == nil {
		return contentstore.Rendered{}, false
	}
	r, ok := s.concepts[ConceptKey(libraryName, conceptPath)]
	return r, ok
}

// Reusable returns the previously rendered concept when its input hash is
// unchanged.
func (s *Snapshot) Reusable(libraryName, conceptPath, hash string) (contentstore.Rendered, bool) {
	if s == nil {
		return contentstore.Rendered{}, false
	}
	key := ConceptKey(libraryName, conceptPath)
	if s.hashes[key] != hash {
		return contentstore.Rendered{}, false
	}
	r, ok := s.concepts[key]
	return r, ok
}

// ConceptCount is the number of rendered concepts.
func (s *Snapshot) ConceptCount() int {
	if s == nil {
		return 0
	}
	return len(s.concepts)
}

// LoadCatalog reads and validates the library catalog.
func (src Sources) LoadCatalog() (*catalog.Catalog, error) {
	c, err := catalog.LoadFile(src.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}

// LoadStore reads the concept content directory.
func (src Sources) LoadStore() (*contentstore.Store, error) {
	s, err := contentstore.LoadFS(os.DirFS(src.ContentDir))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return s, nil
}

// LoadBlog reads the blog posts. A missing or unset directory yields an
// empty blog.
func (src Sources) LoadBlog() (*blog.Blog, error) {
	if src.BlogDir == "" {
		return nil, nil
	}
	b, err := blog.LoadPosts(os.DirFS(src.BlogDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blog: %w", err)
	}
	return b, nil
}

// LoadChangelog reads the changelog. A missing or unset file yields an
// empty changelog.
func (src Sources) LoadChangelog() (*blog.Changelog, error) {
	if src.ChangelogPath == "" {
		return &blog.Changelog{}, nil
	}
	c, err := blog.LoadChangelogFile(src.ChangelogPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &blog.Changelog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("changelog: %w", err)
	}
	return c, nil
}
