package concept

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")
	inlineCode  = regexp.MustCompile("`([^`\n\x00]+)`")
	heading3    = regexp.MustCompile(`(?m)^### (.*)$`)
	heading2    = regexp.MustCompile(`(?m)^## (.*)$`)
	heading1    = regexp.MustCompile(`(?m)^# (.*)$`)
	bold        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italic      = regexp.MustCompile(`\*(.*?)\*`)
	blankLine   = regexp.MustCompile(`\n\s*\n`)
	placeholder = regexp.MustCompile(`\x00code:(\d+)\x00`)
)

const (
	inlineCodeHTML = `<code class="relative rounded bg-muted px-[0.3rem] py-[0.2rem] font-mono text-sm font-semibold">${1}</code>`
	heading3HTML   = `<h3 class="text-lg font-semibold mt-6 mb-3">${1}</h3>`
	heading2HTML   = `<h2 class="text-xl font-semibold mt-8 mb-4">${1}</h2>`
	heading1HTML   = `<h1 class="text-2xl font-semibold mt-8 mb-4">${1}</h1>`
	boldHTML       = `<strong class="font-semibold">${1}</strong>`
	italicHTML     = `<em class="italic">${1}</em>`
	paragraphOpen  = `<p>`
)

// RenderFragment converts a markdown-like fragment to HTML.
//
// Rewrites apply in a fixed order: fenced code, inline code, headings,
// bold, italic, line breaks, paragraphs. Fenced code is swapped for an
// opaque placeholder first so later rewrites only touch the surrounding
// prose. Unbalanced markers are left as literal text.
//
// The output is not valid input: rendering it again double-wraps
// paragraphs.
func RenderFragment(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\x00", "")

	var containers []string
	text = fencedBlock.ReplaceAllStringFunc(text, func(m string) string {
		sub := fencedBlock.FindStringSubmatch(m)
		containers = append(containers, codeContainer(sub[1], sub[2]))
		return "\n\n\x00code:" + strconv.Itoa(len(containers)-1) + "\x00\n\n"
	})

	text = inlineCode.ReplaceAllString(text, inlineCodeHTML)
	text = heading3.ReplaceAllString(text, heading3HTML)
	text = heading2.ReplaceAllString(text, heading2HTML)
	text = heading1.ReplaceAllString(text, heading1HTML)
	text = bold.ReplaceAllString(text, boldHTML)
	text = italic.ReplaceAllString(text, italicHTML)

	var b strings.Builder
	for _, seg := range blankLine.Split(text, -1) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		seg = strings.ReplaceAll(seg, "\n", "<br>")
		if strings.HasPrefix(seg, "<h") || strings.HasPrefix(seg, "\x00code:") {
			b.WriteString(seg)
			continue
		}
		b.WriteString(paragraphOpen)
		b.WriteString(seg)
		b.WriteString("</p>")
	}

	return placeholder.ReplaceAllStringFunc(b.String(), func(m string) string {
		idx, err := strconv.Atoi(placeholder.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(containers) {
			return ""
		}
		return containers[idx]
	})
}

// codeContainer renders a fenced block as a titled code panel.
func codeContainer(lang, code string) string {
	if lang == "" {
		lang = "text"
	}
	var b strings.Builder
	b.WriteString(`<div class="bg-muted rounded-lg p-4 my-6">`)
	b.WriteString(`<div class="flex items-center justify-between mb-2">`)
	b.WriteString(`<h4 class="text-sm font-medium text-muted-foreground">` + CodeBlockTitle + `</h4>`)
	b.WriteString(`<span class="text-xs text-muted-foreground">` + lang + `</span>`)
	b.WriteString(`</div>`)
	b.WriteString(`<pre class="text-sm overflow-x-auto"><code class="language-` + lang + `">`)
	b.WriteString(html.EscapeString(strings.TrimSpace(code)))
	b.WriteString(`</code></pre></div>`)
	return b.String()
}
