package crawl

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var skipToContent = regexp.MustCompile(`(?i)\[Skip to Content\]\(#[^)]*\)`)

// ParseMarkdown converts HTML to Markdown. Newlines inside link text are
// escaped and "Skip to Content" links removed. Empty input or a conversion
// failure yields an empty string.
func ParseMarkdown(html string) string {
	if html == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return ""
	}
	return skipToContent.ReplaceAllString(escapeLinkNewlines(md), "")
}

// escapeLinkNewlines backslash-escapes newlines between [ and ].
func escapeLinkNewlines(md string) string {
	var b strings.Builder
	b.Grow(len(md))
	depth := 0
	for _, r := range md {
		switch r {
		case '[':
			depth++
		case ']':
			depth = max(depth-1, 0)
		}
		if depth > 0 && r == '\n' {
			b.WriteString("\\\n")
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
