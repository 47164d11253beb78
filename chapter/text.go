package chapter

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H2, atom.H3, atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Br:
		return true
	}
	return false
}

// PlainText extracts text from rich content, block boundaries become line
// breaks.
func PlainText(s string) string {
	root, err := ParseFragment(s)
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
			return
		case html.ElementNode:
			if isBlock(n.DataAtom) && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); len(l) > 0 {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// Excerpt returns the first sentence of the first text section with any
// text, shortened to maxRunes (0 means no limit).
func Excerpt(sections []Section, maxRunes int) string {
	for i := range sections {
		if sections[i].Kind != SectionKindText {
			continue
		}
		txt := strings.ReplaceAll(PlainText(sections[i].Content), "\n", " ")
		if len(txt) == 0 {
			continue
		}
		if tok, err := tokenizer(); err == nil {
			if ss := tok.Tokenize(txt); len(ss) > 0 {
				txt = strings.TrimSpace(ss[0].Text)
			}
		}
		return truncate(txt, maxRunes)
	}
	return ""
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxRunes-1])) + "…"
}
