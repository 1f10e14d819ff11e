package search

import (
	"sort"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// Kind is the type of page an entry points at.
type Kind string

const (
	KindLibrary Kind = "library"
	KindConcept Kind = "concept"
	KindPost    Kind = "post"
)

// Entry is one searchable page.
type Entry struct {
	Kind        Kind              `json:"kind"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Group       string            `json:"group,omitempty"`
	Category    string            `json:"category,omitempty"`
	Slug        string            `json:"slug"`
	Headings    []string          `json:"headings"`
	Sections    []doctree.Section `json:"-"`
}

// Hit is a scored query result.
type Hit struct {
	Entry
	Score   int    `json:"score"`
	Snippet string `json:"snippet,omitempty"`
}

const (
	scoreTitle       = 10
	scoreHeading     = 5
	scoreDescription = 3
	scoreBody        = 1
)

// Index is an immutable set of entries.
type Index struct {
	entries []Entry
}

// NewIndex builds an index over entries in the given order.
func NewIndex(entries []Entry) *Index {
	for i := range entries {
		if entries[i].Headings == nil {
			entries[i].Headings = []string{}
		}
	}
	return &Index{entries: entries}
}

// Entries returns all entries in insertion order.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	return ix.entries
}

// Query scores entries against a case-insensitive substring query and
// returns the best limit hits. Ties keep insertion order.
func (ix *Index) Query(q string, limit int) []Hit {
	q = strings.ToLower(strings.TrimSpace(q))
	if ix == nil || q == "" {
		return []Hit{}
	}

	hits := []Hit{}
	for _, e := range ix.entries {
		h := Hit{Entry: e}
		if strings.Contains(strings.ToLower(e.Title), q) {
			h.Score += scoreTitle
		}
		for _, hd := range e.Headings {
			if strings.Contains(strings.ToLower(hd), q) {
				h.Score += scoreHeading
				break
			}
		}
		if strings.Contains(strings.ToLower(e.Description), q) {
			h.Score += scoreDescription
		}
		for _, s := range e.Sections {
			if strings.Contains(strings.ToLower(s.Text), q) {
				h.Score += scoreBody
				if h.Snippet == "" {
					h.Snippet = s.Text
				}
			}
		}
		if h.Score > 0 {
			hits = append(hits, h)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
