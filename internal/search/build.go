package search

import (
	"strings"

	"github.com/dgallion1/docsite/internal/blog"
	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/parser"
)

// ConceptDoc is the raw content of one concept page to index.
type ConceptDoc struct {
	Library catalog.Library
	Concept catalog.Concept
	Raw     string
}

// Builder accumulates entries for an index.
type Builder struct {
	maxTokens int
	entries   []Entry
}

// NewBuilder returns a builder trimming section text to maxTokens.
func NewBuilder(maxTokens int) *Builder {
	return &Builder{maxTokens: maxTokens}
}

// AddLibrary indexes a library landing page.
func (b *Builder) AddLibrary(lib catalog.Library) {
	headings := make([]string, 0, len(lib.Concepts))
	for _, c := range lib.Concepts {
		headings = append(headings, c.Title)
	}
	b.entries = append(b.entries, Entry{
		Kind:        KindLibrary,
		Title:       lib.Name,
		Description: lib.Description,
		Group:       "Libraries",
		Category:    lib.Category,
		Slug:        "/docs/library/" + catalog.Slug(lib.Name),
		Headings:    headings,
	})
}

// AddConcept indexes a concept page using the outline of its Markdown.
// Unparseable content is indexed by title and description only.
func (b *Builder) AddConcept(doc ConceptDoc) {
	e := Entry{
		Kind:        KindConcept,
		Title:       doc.Concept.Title,
		Description: doc.Concept.Description,
		Group:       doc.Library.Name,
		Category:    doc.Library.Category,
		Slug:        "/docs/library/" + catalog.Slug(doc.Library.Name) + "/concept/" + doc.Concept.Path,
	}
	if p, err := parser.ForFile(doc.Concept.Path + ".md"); err == nil {
		if tree, err := p.Parse(strings.NewReader(doc.Raw), doc.Concept.Path+".md"); err == nil {
			e.Headings = tree.Headings()
			e.Sections = Sections(tree, b.maxTokens)
		}
	}
	b.entries = append(b.entries, e)
}

// AddPost indexes a blog post.
func (b *Builder) AddPost(p blog.Post) {
	e := Entry{
		Kind:        KindPost,
		Title:       p.Title,
		Description: p.Excerpt,
		Group:       "Blog",
		Slug:        "/blog/" + p.Slug,
	}
	if tree, err := (&parser.MarkdownParser{}).Parse(strings.NewReader(p.Markdown), p.Slug+".md"); err == nil {
		e.Headings = tree.Headings()
		e.Sections = Sections(tree, b.maxTokens)
	}
	b.entries = append(b.entries, e)
}

// Build returns the finished index.
func (b *Builder) Build() *Index {
	return NewIndex(b.entries)
}
