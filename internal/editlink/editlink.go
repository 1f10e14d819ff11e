package editlink

import (
	"strings"

	"github.com/dgallion1/docsite/internal/concept"
)

// routeFiles maps site routes to the source files that render them.
var routeFiles = map[string]string{
	"":                  "src/routes/_public/index.tsx",
	"contributing":      "src/routes/_public/contributing.tsx",
	"changelog":         "src/routes/_public/changelog.tsx",
	"blog":              "src/routes/_public/blog.tsx",
	"docs":              "src/routes/_docs.tsx",
	"docs/architecture": "src/routes/_docs/architecture.tsx",
	"docs/changelog":    "src/routes/_docs/changelog.tsx",
	"docs/comparison":   "src/routes/_docs/comparison.tsx",
	"docs/contributing": "src/routes/_docs/contributing.tsx",
	"docs/security":     "src/routes/_docs/security.tsx",
}

const (
	libraryRoute = "docs/library/"
	conceptPart  = "/concept/"
	conceptsDir  = "src/data/concepts/"
	blogDir      = "src/data/blog/"
)

// Linker builds "edit this page" links for a repository branch.
type Linker struct {
	RepoURL string
	Branch  string
}

// New returns a linker for repoURL at branch.
func New(repoURL, branch string) Linker {
	return Linker{RepoURL: strings.TrimSuffix(repoURL, "/"), Branch: branch}
}

// FilePath maps a route path to its source file. Concept routes point at
// the concept's Markdown and blog posts at their Markdown source.
func FilePath(routePath string) (string, bool) {
	clean := strings.Trim(routePath, "/")

	if rest, ok := strings.CutPrefix(clean, libraryRoute); ok {
		if lib, conceptPath, ok := strings.Cut(rest, conceptPart); ok && lib != "" && conceptPath != "" {
			return conceptsDir + concept.SourceKey(lib, conceptPath), true
		}
		return "src/routes/_docs/library.$libraryName.tsx", true
	}
	if slug, ok := strings.CutPrefix(clean, "blog/"); ok && slug != "" {
		return blogDir + slug + ".md", true
	}

	f, ok := routeFiles[clean]
	return f, ok
}

// EditURL returns the repository edit URL for a route.
func (l Linker) EditURL(routePath string) (string, bool) {
	f, ok := FilePath(routePath)
	if !ok {
		return "", false
	}
	return l.RepoURL + "/edit/" + l.Branch + "/" + f, true
}
