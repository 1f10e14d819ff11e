package contentstore

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"
)

// Meta is optional front matter of a content file.
type Meta struct {
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
}

type entry struct {
	raw  string
	meta Meta
}

// Store maps source keys such as "http/routes.md" to raw concept content.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// LoadFS reads every Markdown file under fsys. Keys are slash-separated
// paths relative to the root of fsys.
func LoadFS(fsys fs.FS) (*Store, error) {
	s := NewStore()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if err := s.PutFile(p, data); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return s, nil
}

// PutFile stores a file, stripping YAML or TOML front matter if present.
func (s *Store) PutFile(key string, data []byte) error {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return fmt.Errorf("parse frontmatter %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{raw: string(body), meta: meta}
	return nil
}

// Put stores raw content under key as-is.
func (s *Store) Put(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{raw: raw}
}

// Get returns the raw content for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.raw, ok
}

// Meta returns the front matter recorded for key.
func (s *Store) Meta(key string) (Meta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.meta, ok
}

// Has reports whether key is registered.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns all registered keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
