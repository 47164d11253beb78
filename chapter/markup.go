package chapter

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// policy keeps exactly what renderers understand.
var policy = newPolicy()

var (
	reLength  = regexp.MustCompile(`^\d+(\.\d+)?(px|em|rem|%)?$`)
	blockTags = []string{"p", "h2", "h3", "li", "ul", "ol", "blockquote"}
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "h2", "h3", "b", "strong", "i", "em", TagBoldItalic,
		"u", "s", "ul", "ol", "li", "blockquote", "code", "span")
	p.AllowAttrs("src").OnElements("img")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.AllowStyles("text-align").MatchingEnum("left", "right", "center", "justify").OnElements(blockTags...)
	p.AllowStyles("line-height", "margin-bottom", "margin-left").Matching(reLength).OnElements(blockTags...)
	p.AllowStyles("font-size").Matching(reLength).OnElements("span")
	return p
}

// Sanitize removes everything renderers cannot show from externally
// produced HTML (clipboard, imports).
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// FromMarkdown converts markdown document into section content. Heading
// levels are shifted down since chapter title takes the top level.
func FromMarkdown(src []byte) (string, error) {
	doc := md.Parser().Parse(text.NewReader(src))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			h.Level = min(h.Level+1, 3)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, doc); err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return Sanitize(buf.String()), nil
}
