package concept

import "strings"

// BlockKind distinguishes prose blocks from code samples.
type BlockKind string

const (
	KindText BlockKind = "text"
	KindCode BlockKind = "code"
)

// CodeBlockTitle is the fixed title given to every parsed code block.
const CodeBlockTitle = "Code Example"

// AdditionalInfoMarker starts the trailing "additional information" section.
const AdditionalInfoMarker = "## Additional Information"

// ContentBlock is one rendering unit of a concept page.
type ContentBlock struct {
	Kind        BlockKind `json:"type"`
	Content     string    `json:"content"` // HTML for text blocks, raw code for code blocks
	Language    string    `json:"language,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// CodeExample is the single most prominent code sample of a concept.
type CodeExample struct {
	Language        string `json:"language"`
	Title           string `json:"title"`
	Code            string `json:"code"`
	ShowLineNumbers bool   `json:"showLineNumbers,omitempty"`
}

// ParsedConcept is the structured form of a concept's raw content.
// An empty AdditionalInfo means the section is absent.
type ParsedConcept struct {
	Blocks         []ContentBlock `json:"contentBlocks"`
	CodeExample    *CodeExample   `json:"codeExample,omitempty"`
	AdditionalInfo string         `json:"additionalInfo,omitempty"`
}

// Registry reports whether a content resource exists for a source key.
type Registry interface {
	Has(key string) bool
}

// SourceKey builds the lookup key for a concept: the lowercased library
// name, the concept path and a ".md" suffix, e.g. "http/routes.md".
func SourceKey(libraryName, conceptPath string) string {
	return strings.ToLower(libraryName) + "/" + conceptPath + ".md"
}

// ResolveContentSource returns the source key for a concept if reg holds a
// resource for it.
func ResolveContentSource(libraryName, conceptPath string, reg Registry) (string, bool) {
	key := SourceKey(libraryName, conceptPath)
	if reg == nil || !reg.Has(key) {
		return "", false
	}
	return key, true
}
