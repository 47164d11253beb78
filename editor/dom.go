package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chapterdoc/chapter"
)

var ErrBadPosition = errors.New("position does not point into document")

// Position is a point in the document. Path lists child indexes starting
// at editor root. For text node Offset is byte offset into its text, for
// element it is index of the child the point precedes.
type Position struct {
	Path   []int
	Offset int
}

func (p Position) String() string {
	var b strings.Builder
	for _, i := range p.Path {
		fmt.Fprintf(&b, "/%d", i)
	}
	fmt.Fprintf(&b, ":%d", p.Offset)
	return b.String()
}

// point is a resolved position.
type point struct {
	node   *html.Node
	offset int
}

func childAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

func childIndex(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

func childCount(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}

func resolve(root *html.Node, p Position) (point, error) {
	n := root
	for _, i := range p.Path {
		if n = childAt(n, i); n == nil {
			return point{}, fmt.Errorf("%w: %s", ErrBadPosition, p)
		}
	}
	limit := childCount(n)
	if n.Type == html.TextNode {
		limit = len(n.Data)
	}
	if p.Offset < 0 || p.Offset > limit {
		return point{}, fmt.Errorf("%w: %s", ErrBadPosition, p)
	}
	return point{node: n, offset: p.Offset}, nil
}

func positionOf(root *html.Node, pt point) Position {
	var path []int
	for n := pt.node; n != nil && n != root; n = n.Parent {
		path = append(path, childIndex(n))
	}
	slices.Reverse(path)
	return Position{Path: path, Offset: pt.offset}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool { return a.Key == key })
}

func isWrapper(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.DataAtom != atom.Div {
		return false
	}
	_, ok := attr(n, chapter.AttrSectionID)
	return ok
}

// sectionOf walks from node up until wrapper carrying section identifier
// or editor root is reached.
func sectionOf(root, n *html.Node) (string, *html.Node, bool) {
	for ; n != nil && n != root; n = n.Parent {
		if isWrapper(n) {
			id, _ := attr(n, chapter.AttrSectionID)
			return id, n, true
		}
	}
	return "", nil, false
}

// topWrapper returns outermost wrapper containing n: the one which is direct
// child of the root.
func topWrapper(root, n *html.Node) *html.Node {
	for ; n != nil && n.Parent != nil; n = n.Parent {
		if n.Parent == root {
			return n
		}
	}
	return nil
}

// following returns next node in document order, not descending into n.
func following(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// nextNode returns next node in document order.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return following(n)
}

// firstText returns first text node at or after the point.
func firstText(pt point) *html.Node {
	n := pt.node
	if n.Type != html.TextNode {
		if c := childAt(n, pt.offset); c != nil {
			n = c
		} else {
			n = following(n)
		}
	}
	for ; n != nil; n = nextNode(n) {
		if n.Type == html.TextNode {
			return n
		}
	}
	return nil
}

func newElement(name string) *html.Node {
	a := atom.Lookup([]byte(name))
	return &html.Node{Type: html.ElementNode, Data: name, DataAtom: a}
}

func rename(n *html.Node, name string) {
	n.Data = name
	n.DataAtom = atom.Lookup([]byte(name))
}

// wrapNode puts n inside of new element with given name.
func wrapNode(n *html.Node, name string) *html.Node {
	el := newElement(name)
	n.Parent.InsertBefore(el, n)
	n.Parent.RemoveChild(n)
	el.AppendChild(n)
	return el
}

// unwrap replaces element with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

func cloneElement(n *html.Node) *html.Node {
	return &html.Node{Type: n.Type, Data: n.Data, DataAtom: n.DataAtom, Namespace: n.Namespace, Attr: slices.Clone(n.Attr)}
}

func contains(top, n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == top {
			return true
		}
	}
	return false
}

// splitOff moves everything el holds before (or after) its descendant n
// into a copy of el placed next to it. Copies left without content are
// dropped.
func splitOff(el, n *html.Node, before bool) {
	var path []*html.Node
	for c := n; c != nil && c != el; c = c.Parent {
		path = append(path, c)
	}
	if len(path) == 0 {
		return
	}
	slices.Reverse(path)

	top := cloneElement(el)
	copies := []*html.Node{top}
	owner, into := el, top
	for i, cur := range path {
		if before {
			for c := owner.FirstChild; c != nil && c != cur; {
				next := c.NextSibling
				owner.RemoveChild(c)
				into.AppendChild(c)
				c = next
			}
		} else {
			for c := cur.NextSibling; c != nil; {
				next := c.NextSibling
				owner.RemoveChild(c)
				into.AppendChild(c)
				c = next
			}
		}
		if i == len(path)-1 {
			break
		}
		nested := cloneElement(cur)
		if before {
			into.AppendChild(nested)
		} else {
			into.InsertBefore(nested, into.FirstChild)
		}
		copies = append(copies, nested)
		owner, into = cur, nested
	}

	for i := len(copies) - 1; i > 0; i-- {
		if c := copies[i]; c.FirstChild == nil {
			c.Parent.RemoveChild(c)
		}
	}
	if top.FirstChild == nil {
		return
	}
	if before {
		el.Parent.InsertBefore(top, el)
	} else {
		el.Parent.InsertBefore(top, el.NextSibling)
	}
}

// isolate splits el so that it holds only the part between the first and
// the last of texts it contains. Texts are in document order.
func isolate(el *html.Node, texts []*html.Node) {
	var first, last *html.Node
	for _, t := range texts {
		if contains(el, t) {
			if first == nil {
				first = t
			}
			last = t
		}
	}
	if first == nil {
		return
	}
	splitOff(el, first, true)
	splitOff(el, last, false)
}

// splitText cuts text node at byte offset and returns node holding the
// tail. Cutting at the edges returns nil and leaves node alone.
func splitText(n *html.Node, offset int) *html.Node {
	if offset <= 0 || offset >= len(n.Data) {
		return nil
	}
	tail := &html.Node{Type: html.TextNode, Data: n.Data[offset:]}
	n.Data = n.Data[:offset]
	n.Parent.InsertBefore(tail, n.NextSibling)
	return tail
}

// insertAt places node at the point, splitting text when necessary.
func insertAt(pt point, n *html.Node) {
	if pt.node.Type == html.TextNode {
		switch {
		case pt.offset == 0:
			pt.node.Parent.InsertBefore(n, pt.node)
		case pt.offset >= len(pt.node.Data):
			pt.node.Parent.InsertBefore(n, pt.node.NextSibling)
		default:
			tail := splitText(pt.node, pt.offset)
			pt.node.Parent.InsertBefore(n, tail)
		}
		return
	}
	pt.node.InsertBefore(n, childAt(pt.node, pt.offset))
}

// parseWrapper builds DOM node for a single block.
func parseWrapper(b *Block) (*html.Node, error) {
	root, err := chapter.ParseFragment(chapter.WrapSection(b.section()))
	if err != nil {
		return nil, fmt.Errorf("unable to parse block %s: %w", b.ID, err)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if isWrapper(c) {
			root.RemoveChild(c)
			return c, nil
		}
	}
	return nil, fmt.Errorf("block %s does not produce wrapper element", b.ID)
}
