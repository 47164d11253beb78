package chapter

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// TagBoldItalic is the canonical inline element for text which is bold and
// italic at the same time. It carries text only.
const TagBoldItalic = "bi"

// Class names and attribute of spans injected by the editor for caret and
// selection tracking.
const (
	AttrEditorMarker     = "data-editor-marker"
	ClassCaretMarker     = "caret-marker"
	ClassSelectionMarker = "selection-marker"
)

// zero width characters used by editors to keep caret in empty inline
// elements
var caretChars = strings.NewReplacer("\u200b", "", "\ufeff", "", "\u2060", "")

// bodyContext is used to parse fragments the way browsers parse
// contenteditable region content.
func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// ParseFragment parses HTML fragment in body context and returns top level
// nodes attached to a detached root, which simplifies tree surgery.
func ParseFragment(s string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(s), bodyContext())
	if err != nil {
		return nil, err
	}
	root := bodyContext()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// RenderChildren writes all children of the node as HTML.
func RenderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Normalize canonicalizes rich text for rendering. It drops editor
// artifacts, collapses any nesting of bold and italic into single bi
// element and brings text into NFC. Normalize(Normalize(s)) == Normalize(s).
// Input which cannot be parsed is returned unchanged.
//
// Parser fixes misnested markup only partly in one go, so output is fed
// back until it stops changing.
func Normalize(s string) string {
	out, err := normalizeOnce(s)
	if err != nil {
		return s
	}
	for range maxNormalizePasses {
		next, err := normalizeOnce(out)
		if err != nil || next == out {
			break
		}
		out = next
	}
	return out
}

const maxNormalizePasses = 8

func normalizeOnce(s string) (string, error) {
	root, err := ParseFragment(s)
	if err != nil {
		return "", err
	}
	NormalizeTree(root)
	return RenderChildren(root)
}

// NormalizeTree applies normalization to all descendants of the root in place.
func NormalizeTree(root *html.Node) {
	stripArtifacts(root)
	canonicalize(root)
}

func isMarker(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Span {
		return false
	}
	for _, a := range n.Attr {
		switch a.Key {
		case AttrEditorMarker:
			return true
		case "class":
			if slices.ContainsFunc(strings.Fields(a.Val), func(c string) bool {
				return c == ClassCaretMarker || c == ClassSelectionMarker
			}) {
				return true
			}
		}
	}
	return false
}

func stripArtifacts(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case isMarker(c):
			n.RemoveChild(c)
		case c.Type == html.TextNode:
			c.Data = norm.NFC.String(caretChars.Replace(c.Data))
			if len(c.Data) == 0 {
				n.RemoveChild(c)
			}
		default:
			stripArtifacts(c)
		}
		c = next
	}
	mergeText(n)
}

// mergeText joins adjacent text nodes, so the tree looks the same as if it
// was parsed from its rendering.
func mergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for c.Type == html.TextNode && c.NextSibling != nil && c.NextSibling.Type == html.TextNode {
			next := c.NextSibling
			c.Data = norm.NFC.String(c.Data + next.Data)
			n.RemoveChild(next)
		}
	}
}

type emphasis int

const (
	emphasisNone emphasis = iota
	emphasisBold
	emphasisItalic
	emphasisBoth
)

// emphasisOf classifies attribute free formatting elements. Elements with
// attributes are left alone since attributes may carry meaning.
func emphasisOf(n *html.Node) emphasis {
	if n == nil || n.Type != html.ElementNode || len(n.Attr) != 0 {
		return emphasisNone
	}
	switch n.DataAtom {
	case atom.B, atom.Strong:
		return emphasisBold
	case atom.I, atom.Em:
		return emphasisItalic
	}
	if n.DataAtom == 0 && n.Data == TagBoldItalic {
		return emphasisBoth
	}
	return emphasisNone
}

func soleChild(n *html.Node) *html.Node {
	if n.FirstChild != nil && n.FirstChild == n.LastChild {
		return n.FirstChild
	}
	return nil
}

// canonicalize works bottom up, so by the time element is visited its
// descendants are already canonical.
func canonicalize(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		canonicalize(c)
	}

	outer := emphasisOf(n)
	if outer == emphasisNone {
		return
	}
	if outer != emphasisBoth {
		inner := emphasisOf(soleChild(n))
		if inner == emphasisNone || inner == outer {
			return
		}
		// b>i, i>b, b>bi, i>bi
		child := n.FirstChild
		n.RemoveChild(child)
		for g := child.FirstChild; g != nil; {
			next := g.NextSibling
			child.RemoveChild(g)
			n.AppendChild(g)
			g = next
		}
		n.Data, n.DataAtom = TagBoldItalic, 0
	}
	foldInto(n)
}

// foldInto unwraps formatting elements directly inside of bi, they add
// nothing.
func foldInto(bi *html.Node) {
	for c := bi.FirstChild; c != nil; {
		if emphasisOf(c) == emphasisNone {
			c = c.NextSibling
			continue
		}
		first := c.FirstChild
		for g := c.FirstChild; g != nil; {
			next := g.NextSibling
			c.RemoveChild(g)
			bi.InsertBefore(g, c)
			g = next
		}
		next := c.NextSibling
		bi.RemoveChild(c)
		if first != nil {
			// unwrapped children may be formatting elements themselves
			next = first
		}
		c = next
	}
	mergeText(bi)
}
