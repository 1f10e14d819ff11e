package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dgallion1/docsite/internal/concept"
)

// Concept is a documentation topic belonging to a library.
type Concept struct {
	Title          string               `json:"title"`
	Path           string               `json:"path"`
	Description    string               `json:"description"`
	Content        string               `json:"content,omitempty"`
	CodeExample    *concept.CodeExample `json:"codeExample,omitempty"`
	AdditionalInfo string               `json:"additionalInfo,omitempty"`
}

// Library is one entry of the micro-library catalog.
type Library struct {
	Name            string    `json:"name"`
	Stars           int       `json:"stars"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription,omitempty"`
	GithubURL       string    `json:"githubUrl"`
	Version         string    `json:"version"`
	LastUpdated     string    `json:"lastUpdated"`
	Documentation   string    `json:"documentation"`
	Installation    string    `json:"installation"`
	Features        []string  `json:"features"`
	Dependencies    []string  `json:"dependencies"`
	Category        string    `json:"category"`
	License         string    `json:"license,omitempty"`
	Deprecated      bool      `json:"deprecated,omitempty"`
	Concepts        []Concept `json:"concepts,omitempty"`
}

// categoryOrder is the display order of catalog categories.
var categoryOrder = []string{
	"servers",
	"transport",
	"data",
	"security",
	"observability",
	"platform",
	"utilities",
	"integrations",
}

// Catalog holds libraries grouped by category. It is read-only after Load.
type Catalog struct {
	byCategory map[string][]Library
}

// CategoryStats summarizes one category.
type CategoryStats struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Stars int    `json:"stars"`
}

// Stats summarizes the catalog.
type Stats struct {
	TotalLibraries int             `json:"totalLibraries"`
	TotalStars     int             `json:"totalStars"`
	Categories     []CategoryStats `json:"categories"`
}

// LoadFile reads and validates a libraries.json file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a catalog keyed by category name and validates every entry.
func Load(r io.Reader) (*Catalog, error) {
	var raw map[string][]Library
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{byCategory: make(map[string][]Library, len(categoryOrder))}
	for _, cat := range categoryOrder {
		libs := raw[cat]
		for i := range libs {
			if err := libs[i].Validate(); err != nil {
				return nil, fmt.Errorf("catalog %s[%d] %q: %w", cat, i, libs[i].Name, err)
			}
		}
		c.byCategory[cat] = libs
	}
	return c, nil
}

// Categories returns the category names in display order.
func Categories() []string {
	return append([]string(nil), categoryOrder...)
}

// All returns every non-deprecated library in category order.
func (c *Catalog) All() []Library {
	var out []Library
	for _, cat := range categoryOrder {
		out = append(out, active(c.byCategory[cat])...)
	}
	return out
}

// ByCategory returns the non-deprecated libraries of a category, or nil
// for an unknown category.
func (c *Catalog) ByCategory(category string) []Library {
	libs, ok := c.byCategory[strings.ToLower(category)]
	if !ok {
		return nil
	}
	return active(libs)
}

// FindByName matches a library by case-insensitive name or URL slug.
func (c *Catalog) FindByName(name string) (Library, bool) {
	want := strings.ToLower(name)
	for _, lib := range c.All() {
		if strings.ToLower(lib.Name) == want || Slug(lib.Name) == want {
			return lib, true
		}
	}
	return Library{}, false
}

// Stats totals libraries and stars overall and per category.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, cat := range categoryOrder {
		cs := CategoryStats{Name: cat}
		for _, lib := range c.ByCategory(cat) {
			cs.Count++
			cs.Stars += lib.Stars
		}
		s.TotalLibraries += cs.Count
		s.TotalStars += cs.Stars
		s.Categories = append(s.Categories, cs)
	}
	return s
}

// Search matches libraries whose name, description or any feature contains
// the query, case-insensitively.
func (c *Catalog) Search(query string) []Library {
	q := strings.ToLower(query)
	var out []Library
	for _, lib := range c.All() {
		if strings.Contains(strings.ToLower(lib.Name), q) ||
			strings.Contains(strings.ToLower(lib.Description), q) ||
			anyContains(lib.Features, q) {
			out = append(out, lib)
		}
	}
	return out
}

// Related returns up to limit other libraries of the same category.
func (c *Catalog) Related(lib Library, limit int) []Library {
	var out []Library
	for _, other := range c.ByCategory(lib.Category) {
		if len(out) >= limit {
			break
		}
		if other.Name != lib.Name {
			out = append(out, other)
		}
	}
	return out
}

// TopByStars returns the n most starred libraries. A negative n returns
// all of them.
func (c *Catalog) TopByStars(n int) []Library {
	all := c.All()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Stars > all[j].Stars })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// FindConcept looks up a concept by path within a library.
func (lib Library) FindConcept(path string) (Concept, bool) {
	for _, c := range lib.Concepts {
		if c.Path == path {
			return c, true
		}
	}
	return Concept{}, false
}

func active(libs []Library) []Library {
	out := make([]Library, 0, len(libs))
	for _, lib := range libs {
		if !lib.Deprecated {
			out = append(out, lib)
		}
	}
	return out
}

func anyContains(items []string, q string) bool {
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			return true
		}
	}
	return false
}
