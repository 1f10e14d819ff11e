package search

import (
	"github.com/dgallion1/docsite/internal/doctree"
)

// Sections flattens an outline into searchable sections, each carrying
// its heading breadcrumb. Text is trimmed to maxTokens; nodes without text
// produce no section.
func Sections(tree *doctree.DocTree, maxTokens int) []doctree.Section {
	var out []doctree.Section
	index := 0
	for _, child := range tree.Children {
		index = walkNode(child, nil, maxTokens, &out, index)
	}
	return out
}

func walkNode(node *doctree.DocNode, breadcrumb []string, maxTokens int, out *[]doctree.Section, index int) int {
	var bc []string
	bc = append(bc, breadcrumb...)
	if node.Title != "" {
		bc = append(bc, node.Title)
	}

	if node.Text != "" {
		*out = append(*out, doctree.Section{
			Text:       trimToTokens(node.Text, maxTokens),
			Index:      index,
			Breadcrumb: copyBreadcrumb(bc),
		})
		index++
	}

	for _, child := range node.Children {
		index = walkNode(child, bc, maxTokens, out, index)
	}
	return index
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
