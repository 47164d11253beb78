package editor

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chapterdoc/chapter"
	"chapterdoc/css"
)

// Toolbar command applied to current selection.
// ENUM(bold, italic, underline, strike, justifyLeft, justifyCenter, justifyRight, justifyFull, orderedList, unorderedList, indent, outdent, heading, lineHeight, paragraphSpacing, blockquote, inlineCode, clearFormatting)
type Command int

const indentStep = 24

// paragraphs are elements block commands are applied to.
var paragraphs = map[atom.Atom]bool{
	atom.P: true, atom.H2: true, atom.H3: true, atom.Li: true,
}

// containers hold paragraphs, inline content found directly inside of them
// gets wrapped into new paragraph.
var containers = map[atom.Atom]bool{
	atom.Div: true, atom.Blockquote: true,
}

var formatting = map[atom.Atom]bool{
	atom.B: true, atom.Strong: true, atom.I: true, atom.Em: true, atom.U: true,
	atom.S: true, atom.Code: true, atom.Span: true,
}

func isFormatting(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return formatting[n.DataAtom] || (n.DataAtom == 0 && n.Data == chapter.TagBoldItalic)
}

// inlineStyle describes inline toggle command. Elements in match already
// provide the style, first one is used for wrapping.
type inlineStyle struct {
	match []string
	// partial is what bi becomes when this style is removed from it
	partial string
}

var inlineStyles = map[Command]inlineStyle{
	CommandBold:       {match: []string{"b", "strong", chapter.TagBoldItalic}, partial: "i"},
	CommandItalic:     {match: []string{"i", "em", chapter.TagBoldItalic}, partial: "b"},
	CommandUnderline:  {match: []string{"u"}},
	CommandStrike:     {match: []string{"s"}},
	CommandInlineCode: {match: []string{"code"}},
}

var alignments = map[Command]string{
	CommandJustifyLeft:   "left",
	CommandJustifyCenter: "center",
	CommandJustifyRight:  "right",
	CommandJustifyFull:   "justify",
}

// editRange holds text nodes selected for editing and wrappers they live
// in.
type editRange struct {
	texts    []*html.Node
	wrappers []*html.Node
	caret    point
}

func (r *editRange) touch(w *html.Node) {
	for _, o := range r.wrappers {
		if o == w {
			return
		}
	}
	r.wrappers = append(r.wrappers, w)
}

// Exec applies toolbar command to selection. Argument is used by heading
// (h2, h3 or p), lineHeight (unitless number) and paragraphSpacing
// (pixels).
func (s *Surface) Exec(cmd Command, arg string) error {
	s.mu.Lock()
	r, err := s.selectedRange()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	switch {
	case inlineStyles[cmd].match != nil:
		s.toggleInline(r, inlineStyles[cmd])
	case alignments[cmd] != "":
		align := alignments[cmd]
		err = s.patchBlocks(r, func(d *css.Declarations) {
			if align == "left" {
				d.Delete("text-align")
				return
			}
			d.Set("text-align", css.Keyword(align))
		})
	case cmd == CommandIndent || cmd == CommandOutdent:
		delta := float64(indentStep)
		if cmd == CommandOutdent {
			delta = -delta
		}
		err = s.patchBlocks(r, func(d *css.Declarations) {
			cur := 0.0
			if v, ok := d.Get("margin-left"); ok {
				cur, _ = v.Px(float64(s.fonts.Base))
			}
			if next := cur + delta; next > 0 {
				d.Set("margin-left", css.Px(next))
			} else {
				d.Delete("margin-left")
			}
		})
	case cmd == CommandLineHeight:
		var v float64
		if v, err = strconv.ParseFloat(arg, 64); err != nil || v <= 0 {
			err = fmt.Errorf("bad line height %q", arg)
			break
		}
		err = s.patchBlocks(r, func(d *css.Declarations) {
			d.Set("line-height", css.Value{Raw: strconv.FormatFloat(v, 'f', -1, 64), Value: v})
		})
	case cmd == CommandParagraphSpacing:
		var v float64
		if v, err = strconv.ParseFloat(arg, 64); err != nil || v < 0 {
			err = fmt.Errorf("bad paragraph spacing %q", arg)
			break
		}
		err = s.patchBlocks(r, func(d *css.Declarations) {
			d.Set("margin-bottom", css.Px(v))
		})
	case cmd == CommandHeading:
		err = s.heading(r, arg)
	case cmd == CommandOrderedList:
		s.list(r, "ol")
	case cmd == CommandUnorderedList:
		s.list(r, "ul")
	case cmd == CommandBlockquote:
		s.blockquote(r)
	case cmd == CommandClearFormatting:
		for _, t := range r.texts {
			for p := t.Parent; p != nil && isFormatting(p); p = t.Parent {
				isolate(p, r.texts)
				unwrap(p)
			}
		}
	default:
		err = fmt.Errorf("unsupported command %s", cmd)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.reselect(r)
	changed := s.commit(r.wrappers...)
	ch := Change{HTML: s.html(), Changed: changed}
	s.mu.Unlock()

	s.notify(ch)
	return nil
}

// selectedRange splits text at selection edges and collects text nodes
// between them which belong to text sections. Collapsed selection takes
// the whole text node caret is in. Must be called with lock held.
func (s *Surface) selectedRange() (*editRange, error) {
	if !s.selected {
		return nil, ErrNoSelection
	}
	if _, _, ok := s.sectionAtCursor(); !ok {
		return nil, ErrNoSection
	}
	start, err := resolve(s.root, s.anchor)
	if err != nil {
		return nil, err
	}
	end, err := resolve(s.root, s.focus)
	if err != nil {
		return nil, err
	}

	var texts []*html.Node
	if comparePositions(s.anchor, s.focus) == 0 {
		if t := firstText(start); t != nil && start.node.Type == html.TextNode {
			texts = append(texts, t)
		}
	} else {
		// end goes first so start offsets stay valid
		endMark, startMark := newElement("span"), newElement("span")
		insertAt(end, endMark)
		insertAt(start, startMark)
		for n := nextNode(startMark); n != nil && n != endMark; n = nextNode(n) {
			if n.Type == html.TextNode && len(n.Data) > 0 {
				texts = append(texts, n)
			}
		}
		startMark.Parent.RemoveChild(startMark)
		endMark.Parent.RemoveChild(endMark)
	}

	r := &editRange{caret: start}
	for _, t := range texts {
		w := topWrapper(s.root, t)
		if w == nil {
			continue
		}
		id, _ := attr(w, chapter.AttrSectionID)
		if b, ok := s.model.get(id); !ok || b.Kind != chapter.SectionKindText {
			continue
		}
		r.texts = append(r.texts, t)
		r.touch(w)
	}
	if len(r.texts) == 0 {
		// caret in empty paragraph still allows block commands
		if w := topWrapper(s.root, start.node); w != nil {
			r.touch(w)
		}
	}
	return r, nil
}

// reselect makes selection span edited text. Caret without text stays
// where it is.
func (s *Surface) reselect(r *editRange) {
	var live []*html.Node
	for _, t := range r.texts {
		if topWrapper(s.root, t) != nil {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		if topWrapper(s.root, r.caret.node) != nil {
			if r.caret.node.Type == html.ElementNode {
				r.caret.offset = min(r.caret.offset, childCount(r.caret.node))
			}
			s.anchor = positionOf(s.root, r.caret)
			s.focus = s.anchor
		}
		return
	}
	first, last := live[0], live[len(live)-1]
	s.anchor = positionOf(s.root, point{node: first, offset: 0})
	s.focus = positionOf(s.root, point{node: last, offset: len(last.Data)})
}

func matches(n *html.Node, names []string) bool {
	if n.Type != html.ElementNode || len(n.Attr) != 0 {
		return false
	}
	for _, name := range names {
		if n.Data == name {
			return true
		}
	}
	return false
}

// styledAncestor returns nearest ancestor below paragraph level providing
// the style.
func styledAncestor(t *html.Node, st inlineStyle) *html.Node {
	for p := t.Parent; p != nil && isFormatting(p); p = p.Parent {
		if matches(p, st.match) {
			return p
		}
	}
	return nil
}

func (s *Surface) toggleInline(r *editRange, st inlineStyle) {
	all := len(r.texts) > 0
	for _, t := range r.texts {
		if styledAncestor(t, st) == nil {
			all = false
			break
		}
	}
	for _, t := range r.texts {
		p := styledAncestor(t, st)
		switch {
		case p == nil:
			if !all {
				wrapNode(t, st.match[0])
			}
		case !all:
		case p.Data == chapter.TagBoldItalic:
			isolate(p, r.texts)
			rename(p, st.partial)
		default:
			isolate(p, r.texts)
			unwrap(p)
		}
	}
}

// paragraphOf returns paragraph holding the node, creating one for inline
// content placed directly into container.
func paragraphOf(n *html.Node) *html.Node {
	for c := n; c != nil && c.Parent != nil; c = c.Parent {
		if c.Type == html.ElementNode && paragraphs[c.DataAtom] {
			return c
		}
		if isWrapper(c) {
			return nil
		}
		parent := c.Parent
		if isWrapper(parent) || (parent.Type == html.ElementNode && containers[parent.DataAtom]) {
			return wrapInlineRun(c)
		}
	}
	return nil
}

func isInline(n *html.Node) bool {
	return n.Type == html.TextNode || isFormatting(n) ||
		(n.Type == html.ElementNode && (n.DataAtom == atom.Br || n.DataAtom == atom.Img))
}

// wrapInlineRun moves consecutive inline siblings of n into new paragraph.
func wrapInlineRun(n *html.Node) *html.Node {
	if !isInline(n) {
		return nil
	}
	first := n
	for first.PrevSibling != nil && isInline(first.PrevSibling) {
		first = first.PrevSibling
	}
	p := newElement("p")
	n.Parent.InsertBefore(p, first)
	for c := first; c != nil && isInline(c); {
		next := c.NextSibling
		c.Parent.RemoveChild(c)
		p.AppendChild(c)
		c = next
	}
	return p
}

// selectedParagraphs returns distinct paragraphs of the range in document
// order. Must be called with lock held.
func (s *Surface) selectedParagraphs(r *editRange) []*html.Node {
	var res []*html.Node
	add := func(p *html.Node) {
		if p == nil {
			return
		}
		for _, o := range res {
			if o == p {
				return
			}
		}
		res = append(res, p)
	}
	if len(r.texts) == 0 {
		if pt, err := resolve(s.root, s.anchor); err == nil {
			n := pt.node
			if c := childAt(n, pt.offset); n.Type == html.ElementNode && !paragraphs[n.DataAtom] && c != nil {
				n = c
			}
			add(paragraphOf(n))
		}
	}
	for _, t := range r.texts {
		add(paragraphOf(t))
	}
	return res
}

func (s *Surface) patchBlocks(r *editRange, patch func(*css.Declarations)) error {
	paras := s.selectedParagraphs(r)
	if len(paras) == 0 {
		return ErrNoSelection
	}
	for _, p := range paras {
		style, _ := attr(p, "style")
		decls := css.ParseInline(style)
		patch(&decls)
		if len(decls) == 0 {
			removeAttr(p, "style")
		} else {
			setAttr(p, "style", decls.String())
		}
	}
	return nil
}

func (s *Surface) heading(r *editRange, level string) error {
	switch level {
	case "h2", "h3", "p":
	default:
		return fmt.Errorf("bad heading level %q", level)
	}
	paras := s.selectedParagraphs(r)
	if len(paras) == 0 {
		return ErrNoSelection
	}
	for _, p := range paras {
		if p.DataAtom != atom.Li {
			rename(p, level)
		}
	}
	return nil
}

func listOf(p *html.Node) *html.Node {
	if p.DataAtom == atom.Li && p.Parent != nil && (p.Parent.DataAtom == atom.Ul || p.Parent.DataAtom == atom.Ol) {
		return p.Parent
	}
	return nil
}

// list turns paragraphs into list items of given kind. When all of them
// already are in such list the lists are dissolved back into paragraphs.
func (s *Surface) list(r *editRange, kind string) {
	paras := s.selectedParagraphs(r)
	all := len(paras) > 0
	for _, p := range paras {
		if l := listOf(p); l == nil || l.Data != kind {
			all = false
			break
		}
	}

	if all {
		for _, p := range paras {
			if l := listOf(p); l != nil {
				for c := l.FirstChild; c != nil; c = c.NextSibling {
					if c.DataAtom == atom.Li {
						rename(c, "p")
					}
				}
				unwrap(l)
			}
		}
		return
	}

	var current *html.Node
	for _, p := range paras {
		if l := listOf(p); l != nil {
			rename(l, kind)
			current = nil
			continue
		}
		if current == nil || current.NextSibling != p {
			current = newElement(kind)
			p.Parent.InsertBefore(current, p)
		}
		p.Parent.RemoveChild(p)
		rename(p, "li")
		current.AppendChild(p)
	}
}

func quoteOf(p *html.Node) *html.Node {
	for n := p.Parent; n != nil && !isWrapper(n); n = n.Parent {
		if n.DataAtom == atom.Blockquote {
			return n
		}
	}
	return nil
}

func (s *Surface) blockquote(r *editRange) {
	paras := s.selectedParagraphs(r)
	all := len(paras) > 0
	for _, p := range paras {
		if quoteOf(p) == nil {
			all = false
			break
		}
	}
	if all {
		for _, p := range paras {
			if q := quoteOf(p); q != nil {
				unwrap(q)
			}
		}
		return
	}

	var current *html.Node
	for _, p := range paras {
		if quoteOf(p) != nil {
			continue
		}
		target := p
		if l := listOf(p); l != nil {
			target = l
		}
		if current != nil && current.NextSibling == target {
			target.Parent.RemoveChild(target)
			current.AppendChild(target)
			continue
		}
		current = wrapNode(target, "blockquote")
	}
}

// AdjustFontSize changes font size of selection by number of steps. Size
// of the nearest enclosing styled span is patched in place, a new span is
// created only when there is none. Span covering more than the selection
// is split first, so text around selection keeps its size. Result is
// clamped to configured bounds.
func (s *Surface) AdjustFontSize(steps int) error {
	s.mu.Lock()
	r, err := s.selectedRange()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	clamp := func(v float64) float64 {
		return max(float64(s.fonts.Min), min(float64(s.fonts.Max), v))
	}
	base := float64(s.fonts.Base)
	delta := float64(steps * s.fonts.Step)

	var spans []*html.Node
	if span := sizedSpan(r); span != nil {
		isolate(span, r.texts)
		spans = append(spans, span)
	} else {
		for _, t := range r.texts {
			span := wrapNode(t, "span")
			setAttr(span, "style", "")
			spans = append(spans, span)
		}
	}
	for _, span := range spans {
		style, _ := attr(span, "style")
		decls := css.ParseInline(style)
		cur := base
		if v, ok := decls.Get("font-size"); ok {
			if px, ok := v.Px(base); ok {
				cur = px
			}
		}
		decls.Set("font-size", css.Px(clamp(cur+delta)))
		setAttr(span, "style", decls.String())
	}

	s.reselect(r)
	changed := s.commit(r.wrappers...)
	ch := Change{HTML: s.html(), Changed: changed}
	s.mu.Unlock()

	s.notify(ch)
	return nil
}

// sizedSpan returns styled span enclosing all selected text.
func sizedSpan(r *editRange) *html.Node {
	if len(r.texts) == 0 {
		return nil
	}
	var found *html.Node
	for p := r.texts[0].Parent; p != nil && isFormatting(p); p = p.Parent {
		if _, ok := attr(p, "style"); ok && p.DataAtom == atom.Span {
			found = p
			break
		}
	}
	if found == nil {
		return nil
	}
	for _, t := range r.texts[1:] {
		inside := false
		for p := t.Parent; p != nil; p = p.Parent {
			if p == found {
				inside = true
				break
			}
		}
		if !inside {
			return nil
		}
	}
	return found
}
