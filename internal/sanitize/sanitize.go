// Package sanitize cleans user supplied rich text against tag allow-lists.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var defaultTags = []string{
	"address", "article", "aside", "footer", "header", "hgroup", "main", "nav", "section",
	"blockquote", "dd", "div", "dl", "dt", "figcaption", "figure", "hr", "li", "ol", "p", "pre", "ul",
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn", "em", "i", "kbd", "mark",
	"q", "s", "samp", "small", "span", "strong", "sub", "sup", "time", "u", "var", "wbr",
	"caption", "col", "colgroup", "table", "tbody", "td", "tfoot", "th", "thead", "tr",
}

// Sanitizer holds the post and comment policies. Policies are safe for
// concurrent use once built.
type Sanitizer struct {
	post    *bluemonday.Policy
	comment *bluemonday.Policy
}

func New() *Sanitizer {
	return &Sanitizer{post: postPolicy(), comment: commentPolicy()}
}

// Post allows the default tags plus headings, blockquote, code and images.
func (s *Sanitizer) Post(html string) string {
	return s.post.Sanitize(html)
}

// Comment allows the default tags with no attributes at all.
func (s *Sanitizer) Comment(html string) string {
	return s.comment.Sanitize(html)
}

func postPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(defaultTags...)
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "code", "img")
	p.AllowStandardURLs()
	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	return p
}

func commentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(defaultTags...)
	p.AllowElements("strong", "em")
	return p
}
