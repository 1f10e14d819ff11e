package catalog

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
	wordStart     = regexp.MustCompile(`\b\w`)
)

// Slug turns a library name into its URL slug.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// NameFromSlug reverses Slug approximately by title-casing each word.
func NameFromSlug(slug string) string {
	name := strings.ReplaceAll(slug, "-", " ")
	return wordStart.ReplaceAllStringFunc(name, func(s string) string {
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	})
}

// ConceptSlug turns a concept title into a URL slug.
func ConceptSlug(title string) string {
	s := whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// FormatVersion prefixes a version with "v".
func FormatVersion(version string) string {
	return "v" + version
}

// FormatLastUpdated renders an ISO date as e.g. "January 15, 2024".
// Unparseable input is returned unchanged.
func FormatLastUpdated(date string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return date
}
