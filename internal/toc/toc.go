package toc

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/parser"
)

// Item is one table-of-contents entry.
type Item struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

const (
	minLevel = 2
	maxLevel = 4
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Anchor derives an anchor id from heading text.
func Anchor(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
}

// FromTree lists h2–h4 headings of an outline in document order. Headings
// without an id get one from Anchor.
func FromTree(tree *doctree.DocTree) []Item {
	items := []Item{}
	tree.Walk(func(n *doctree.DocNode, _ int) {
		if n.Level < minLevel || n.Level > maxLevel || n.Title == "" {
			return
		}
		id := n.ID
		if id == "" {
			id = Anchor(n.Title)
		}
		items = append(items, Item{ID: id, Text: n.Title, Level: n.Level})
	})
	return items
}

// FromHTML builds a table of contents from rendered HTML. Malformed HTML
// yields an empty list.
func FromHTML(html string) []Item {
	tree, err := (&parser.HTMLParser{}).Parse(strings.NewReader(html), "")
	if err != nil {
		return []Item{}
	}
	return FromTree(tree)
}
