package blog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChangelogEntry is one release note.
type ChangelogEntry struct {
	ID          string   `yaml:"id" json:"id"`
	Date        string   `yaml:"date" json:"date"`
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	Content     string   `yaml:"content" json:"-"`
	Tags        []string `yaml:"tags" json:"tags"`
	Authors     []string `yaml:"authors" json:"authors"`
	Highlights  []string `yaml:"highlights" json:"highlights"`
	HTML        string   `yaml:"-" json:"content"`
}

// Changelog is the ordered list of release notes, newest first.
type Changelog struct {
	Entries []ChangelogEntry
}

// LoadChangelogFile reads a YAML changelog from disk.
func LoadChangelogFile(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open changelog: %w", err)
	}
	defer f.Close()
	return LoadChangelog(f)
}

// LoadChangelog decodes a YAML list of entries and renders their content.
func LoadChangelog(r io.Reader) (*Changelog, error) {
	var entries []ChangelogEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode changelog: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		if e.ID == "" || e.Title == "" {
			return nil, fmt.Errorf("changelog entry %d: id and title are required", i)
		}
		html, err := RenderMarkdown([]byte(e.Content))
		if err != nil {
			return nil, fmt.Errorf("changelog entry %s: %w", e.ID, err)
		}
		e.HTML = html
	}
	// ISO dates sort lexically.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return &Changelog{Entries: entries}, nil
}

// ByCategory filters entries case-insensitively; an empty category matches
// everything.
func (c *Changelog) ByCategory(category string) []ChangelogEntry {
	if c == nil {
		return nil
	}
	if category == "" {
		return c.Entries
	}
	var out []ChangelogEntry
	for _, e := range c.Entries {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}
