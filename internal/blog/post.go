package blog

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/toc"
)

// Post is a rendered blog article.
type Post struct {
	Slug     string     `json:"slug"`
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	Date     time.Time  `json:"date"`
	ReadTime string     `json:"readTime"`
	Excerpt  string     `json:"excerpt"`
	Tags     []string   `json:"tags"`
	Markdown string     `json:"-"`
	HTML     string     `json:"content"`
	TOC      []toc.Item `json:"toc"`
}

type postMeta struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Author   string    `yaml:"author"`
	Date     time.Time `yaml:"date"`
	ReadTime string    `yaml:"readTime"`
	Excerpt  string    `yaml:"excerpt"`
	Tags     []string  `yaml:"tags"`
	Draft    bool      `yaml:"draft"`
}

// wordsPerMinute is used to estimate reading time when none is given.
const wordsPerMinute = 200

// Blog holds the published posts, newest first.
type Blog struct {
	posts  []Post
	bySlug map[string]int
}

// LoadPosts reads every Markdown post under fsys. Drafts are skipped.
func LoadPosts(fsys fs.FS) (*Blog, error) {
	b := &Blog{bySlug: map[string]int{}}
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
		post, draft, err := parsePost(p, data)
		if err != nil {
			return err
		}
		if !draft {
			b.posts = append(b.posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	sort.SliceStable(b.posts, func(i, j int) bool {
		return b.posts[i].Date.After(b.posts[j].Date)
	})
	for i, p := range b.posts {
		if _, dup := b.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate post slug %q", p.Slug)
		}
		b.bySlug[p.Slug] = i
	}
	return b, nil
}

func parsePost(name string, data []byte) (Post, bool, error) {
	var meta postMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Post{}, false, fmt.Errorf("parse frontmatter %s: %w", name, err)
	}
	if meta.Title == "" {
		return Post{}, false, fmt.Errorf("post %s: title is required", name)
	}

	html, err := RenderMarkdown(body)
	if err != nil {
		return Post{}, false, fmt.Errorf("post %s: %w", name, err)
	}

	slug := meta.Slug
	if slug == "" {
		slug = catalog.ConceptSlug(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	}
	readTime := meta.ReadTime
	if readTime == "" {
		readTime = estimateReadTime(string(body))
	}

	return Post{
		Slug:     slug,
		Title:    meta.Title,
		Author:   meta.Author,
		Date:     meta.Date,
		ReadTime: readTime,
		Excerpt:  meta.Excerpt,
		Tags:     meta.Tags,
		Markdown: string(body),
		HTML:     html,
		TOC:      toc.FromHTML(html),
	}, meta.Draft, nil
}

func estimateReadTime(body string) string {
	minutes := (len(strings.Fields(body)) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// Posts returns all posts, newest first.
func (b *Blog) Posts() []Post {
	if b == nil {
		return nil
	}
	return b.posts
}

// Post looks up a post by slug.
func (b *Blog) Post(slug string) (Post, bool) {
	if b == nil {
		return Post{}, false
	}
	i, ok := b.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return b.posts[i], true
}
