package doctree

// DocTree is the heading outline of a parsed document.
type DocTree struct {
	Title    string     // Document title (from front matter, <title> or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the outline.
type DocNode struct {
	Title    string     // Section heading (empty for leading text)
	ID       string     // Anchor id, if the source carries one
	Level    int        // Heading level, 0 for untitled text
	Text     string     // Text content directly under this heading
	Children []*DocNode // Subsections
}

// Section is a searchable slice of a document with its heading trail.
type Section struct {
	Text       string   // Section text, possibly trimmed to a token budget
	Index      int      // Sequence number within the document
	Breadcrumb []string // Heading hierarchy, e.g. ["Routes", "Parameters"]
}

// Walk visits every node depth-first in document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 0)
}

// Headings returns every heading title in document order.
func (t *DocTree) Headings() []string {
	var out []string
	t.Walk(func(n *DocNode, _ int) {
		if n.Title != "" {
			out = append(out, n.Title)
		}
	})
	return out
}
