package contentstore

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/concept"
	"github.com/dgallion1/docsite/internal/toc"
)

// Rendered is a concept with its content parsed for display.
type Rendered struct {
	catalog.Concept
	Library   string                 `json:"library"`
	SourceKey string                 `json:"sourceKey,omitempty"`
	Found     bool                   `json:"found"`
	Blocks    []concept.ContentBlock `json:"contentBlocks"`
	TOC       []toc.Item             `json:"toc"`
}

// Loader resolves concepts against a Store.
type Loader struct {
	store *Store
	log   *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(store *Store, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{store: store, log: log}
}

// Resolve returns the store key backing a concept, if any.
func (l *Loader) Resolve(libraryName, conceptPath string) (string, bool) {
	return concept.ResolveContentSource(libraryName, conceptPath, l.store)
}

// Placeholder is the visible text shown when a concept has no content.
func Placeholder(c catalog.Concept) string {
	return fmt.Sprintf(`<p>Content not available - No file found for concept "%s" (path: "%s")</p>`, c.Title, c.Path)
}

// Load returns the raw content of a concept. Inline catalog content wins
// over the store; a missing file yields Placeholder and found=false.
func (l *Loader) Load(c catalog.Concept, libraryName string) (raw, key string, found bool) {
	if c.Content != "" {
		return c.Content, "", true
	}
	key, ok := l.Resolve(libraryName, c.Path)
	if !ok {
		l.log.Warn("concept content not found",
			"concept", c.Title,
			"path", c.Path,
			"key", concept.SourceKey(libraryName, c.Path),
			"available", l.store.Len(),
		)
		return Placeholder(c), "", false
	}
	raw, _ = l.store.Get(key)
	return raw, key, true
}

// WithContent loads and parses a concept. The catalog's own code example
// and additional info are kept when the content provides none.
func (l *Loader) WithContent(c catalog.Concept, libraryName string) Rendered {
	raw, key, found := l.Load(c, libraryName)
	return l.Render(c, libraryName, raw, key, found)
}

// Render parses content previously returned by Load.
func (l *Loader) Render(c catalog.Concept, libraryName, raw, key string, found bool) Rendered {
	parsed := concept.Parse(raw)

	out := Rendered{
		Concept:   c,
		Library:   libraryName,
		SourceKey: key,
		Found:     found,
		Blocks:    parsed.Blocks,
	}
	out.Content = ""
	if parsed.CodeExample != nil {
		out.CodeExample = parsed.CodeExample
	}
	if parsed.AdditionalInfo != "" {
		out.AdditionalInfo = parsed.AdditionalInfo
	}
	if key != "" && c.Description == "" {
		if meta, ok := l.store.Meta(key); ok {
			out.Description = meta.Description
		}
	}
	out.TOC = toc.FromHTML(blocksHTML(out))

	l.log.Debug("parsed concept",
		"concept", c.Title,
		"library", libraryName,
		"blocks", len(parsed.Blocks),
		"code_example", parsed.CodeExample != nil,
		"additional_info", parsed.AdditionalInfo != "",
	)
	return out
}

// blocksHTML joins the text blocks and additional info into one document
// so headings can be collected in display order.
func blocksHTML(r Rendered) string {
	var b strings.Builder
	for _, blk := range r.Blocks {
		if blk.Kind == concept.KindText {
			b.WriteString(blk.Content)
		}
	}
	b.WriteString(r.AdditionalInfo)
	return b.String()
}
