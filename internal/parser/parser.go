package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// Parser converts a document into its heading outline.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions with an outline parser.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// stackEntry tracks the open heading chain while building an outline.
type stackEntry struct {
	node  *doctree.DocNode
	level int
}

// outlineBuilder nests headings by level and attaches text to the
// innermost open heading.
type outlineBuilder struct {
	root  *doctree.DocNode
	stack []stackEntry
	text  strings.Builder
}

func newOutlineBuilder(title string) *outlineBuilder {
	root := &doctree.DocNode{Title: title}
	return &outlineBuilder{root: root, stack: []stackEntry{{node: root, level: 0}}}
}

func (b *outlineBuilder) heading(level int, title, id string) {
	b.flush()
	n := &doctree.DocNode{Title: title, ID: id, Level: level}
	// Pop until the top is a shallower heading.
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, stackEntry{node: n, level: level})
}

func (b *outlineBuilder) addText(t string) {
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *outlineBuilder) flush() {
	t := strings.TrimSpace(b.text.String())
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

func (b *outlineBuilder) tree(title string) *doctree.DocTree {
	b.flush()
	tree := &doctree.DocTree{Title: title, Children: b.root.Children}
	// Text before the first heading becomes an untitled leading node.
	if b.root.Text != "" {
		tree.Children = append([]*doctree.DocNode{{Text: b.root.Text}}, tree.Children...)
	}
	return tree
}
