package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"chapterdoc/chapter"
	"chapterdoc/config"
)

var (
	ErrUnknownBlock  = errors.New("block is not part of the document")
	ErrNoSection     = errors.New("insert point must be inside a section")
	ErrNoSelection   = errors.New("nothing is selected")
	ErrReadOnlyBlock = errors.New("block is not editable")
)

// Change is emitted after every edit. It carries complete document and
// identifiers of blocks whose content changed.
type Change struct {
	HTML    string
	Changed []string
}

// Surface is a single editable region holding all blocks of a chapter. The
// block model is authoritative, DOM is its view used to resolve cursor and
// apply edits. Only blocks touched by an edit are rendered back from DOM.
type Surface struct {
	log      *zap.Logger
	chapter  chapter.Chapter
	assets   Assets
	sections SectionCreator
	fonts    config.FontSizeConfig

	mu       sync.Mutex
	model    *model
	root     *html.Node
	anchor   Position
	focus    Position
	selected bool

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

func NewSurface(ch chapter.Chapter, assets Assets, sections SectionCreator, fonts config.FontSizeConfig, log *zap.Logger) *Surface {
	return &Surface{
		log:      log.Named("surface").With(zap.String("chapter", ch.ID)),
		chapter:  ch,
		assets:   assets,
		sections: sections,
		fonts:    fonts,
		model:    newModel(nil),
		root:     newElement("body"),
		subs:     make(map[int]func(Change)),
	}
}

// Chapter returns chapter being edited.
func (s *Surface) Chapter() chapter.Chapter {
	return s.chapter
}

// Load replaces document with sections. Selection is reset.
func (s *Surface) Load(sections []chapter.Section) error {
	m := newModel(sections)
	root := newElement("body")
	for _, b := range m.all() {
		if b.Kind == chapter.SectionKindText {
			content, err := chapter.Balance(b.Content)
			if err != nil {
				return fmt.Errorf("block %s: %w", b.ID, err)
			}
			if content != b.Content {
				s.log.Warn("Unbalanced content closed on load", zap.String("block", b.ID))
				b.Content = content
			}
		}
		n, err := parseWrapper(b)
		if err != nil {
			return err
		}
		root.AppendChild(n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.model, s.root, s.selected = m, root, false
	s.log.Debug("Document loaded", zap.Int("blocks", m.len()))
	return nil
}

func (s *Surface) html() string {
	var b strings.Builder
	for _, blk := range s.model.all() {
		b.WriteString(chapter.WrapSection(blk.section()))
	}
	return b.String()
}

// HTML returns the whole editable document.
func (s *Surface) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.html()
}

// Blocks returns copy of all blocks in document order.
func (s *Surface) Blocks() []Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.model.all()
	res := make([]Block, 0, len(all))
	for _, b := range all {
		res = append(res, *b)
	}
	return res
}

// Block returns copy of the block.
func (s *Surface) Block(id string) (Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.model.get(id); ok {
		return *b, true
	}
	return Block{}, false
}

// Sections returns current content as section records.
func (s *Surface) Sections() []chapter.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.model.all()
	res := make([]chapter.Section, 0, len(all))
	for _, b := range all {
		sec := b.section()
		sec.ChapterID = s.chapter.ID
		res = append(res, *sec)
	}
	return res
}

// Subscribe registers change listener and returns function removing it.
func (s *Surface) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Surface) notify(ch Change) {
	if len(ch.Changed) == 0 {
		return
	}
	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for i := range s.nextSub {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}

// Input applies raw snapshot of the whole editable region. Every block in
// snapshot must be known to the document, otherwise nothing changes.
// Blocks absent from snapshot are kept as they are.
func (s *Surface) Input(snapshot string) error {
	blocks, err := chapter.Extract(snapshot)
	if err != nil {
		return fmt.Errorf("unable to read document snapshot: %w", err)
	}

	s.mu.Lock()

	type update struct {
		blk  *Block
		body string
	}
	var updates []update
	for _, eb := range blocks {
		b, ok := s.model.get(eb.SectionID)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownBlock, eb.SectionID)
		}
		if b.Kind != eb.Kind {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s changed type to %s", ErrUnknownBlock, b.ID, eb.Kind)
		}
		if b.Kind != chapter.SectionKindText {
			// not editable
			continue
		}
		if eb.Inner != chapter.InnerHTML(b.section()) {
			updates = append(updates, update{blk: b, body: eb.Inner})
		}
	}

	// build new views first so failure leaves document intact
	nodes := make([]*html.Node, len(updates))
	for i, u := range updates {
		next := *u.blk
		next.Content = u.body
		n, err := parseWrapper(&next)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		nodes[i] = n
	}

	changed := make([]string, 0, len(updates))
	for i, u := range updates {
		old := s.wrapperNode(u.blk.ID)
		if old != nil {
			if s.selected && len(s.anchor.Path) > 0 && s.anchor.Path[0] == childIndex(old) {
				s.selected = false
			}
			s.root.InsertBefore(nodes[i], old)
			s.root.RemoveChild(old)
		}
		u.blk.Content = u.body
		u.blk.Revision++
		u.blk.Status = BlockStatusPending
		changed = append(changed, u.blk.ID)
	}
	ch := Change{HTML: s.html(), Changed: changed}
	s.mu.Unlock()

	s.notify(ch)
	return nil
}

func (s *Surface) wrapperNode(id string) *html.Node {
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if v, ok := attr(c, chapter.AttrSectionID); ok && v == id && isWrapper(c) {
			return c
		}
	}
	return nil
}

// commit renders touched wrappers back into the model. Must be called with
// lock held.
func (s *Surface) commit(wrappers ...*html.Node) []string {
	var changed []string
	seen := make(map[*html.Node]bool)
	for _, w := range wrappers {
		if w == nil || seen[w] {
			continue
		}
		seen[w] = true

		id, _ := attr(w, chapter.AttrSectionID)
		b, ok := s.model.get(id)
		if !ok || b.Kind != chapter.SectionKindText {
			continue
		}
		body, err := chapter.RenderChildren(w)
		if err != nil {
			s.log.Error("Unable to render block", zap.String("section", id), zap.Error(err))
			continue
		}
		if body == chapter.InnerHTML(b.section()) {
			continue
		}
		b.Content = body
		b.Revision++
		b.Status = BlockStatusPending
		changed = append(changed, id)
	}
	return changed
}

// Select sets selection. Anchor and focus may come in any order.
func (s *Surface) Select(anchor, focus Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := resolve(s.root, anchor); err != nil {
		return err
	}
	if _, err := resolve(s.root, focus); err != nil {
		return err
	}
	if comparePositions(anchor, focus) > 0 {
		anchor, focus = focus, anchor
	}
	s.anchor, s.focus, s.selected = anchor, focus, true
	return nil
}

// Collapse places caret at the position.
func (s *Surface) Collapse(p Position) error {
	return s.Select(p, p)
}

// Selection returns current selection.
func (s *Surface) Selection() (Position, Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.anchor, s.focus, s.selected
}

// FindText returns position of the first occurrence of needle in document
// text.
func (s *Surface) FindText(needle string) (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.findText(needle)
	if !ok {
		return Position{}, false
	}
	return positionOf(s.root, pt), true
}

func (s *Surface) findText(needle string) (point, bool) {
	for n := s.root.FirstChild; n != nil; n = nextNode(n) {
		if n.Type != html.TextNode {
			continue
		}
		if i := strings.Index(n.Data, needle); i >= 0 {
			return point{node: n, offset: i}, true
		}
	}
	return point{}, false
}

// SelectText selects first occurrence of the text.
func (s *Surface) SelectText(needle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.findText(needle)
	if !ok {
		return fmt.Errorf("%w: %q not found", ErrNoSelection, needle)
	}
	s.anchor = positionOf(s.root, pt)
	s.focus = Position{Path: s.anchor.Path, Offset: pt.offset + len(needle)}
	s.selected = true
	return nil
}

// SectionAtCursor resolves section containing selection anchor.
func (s *Surface) SectionAtCursor() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _, ok := s.sectionAtCursor()
	return id, ok
}

func (s *Surface) sectionAtCursor() (string, *html.Node, bool) {
	if !s.selected {
		return "", nil, false
	}
	pt, err := resolve(s.root, s.anchor)
	if err != nil {
		return "", nil, false
	}
	id, w, ok := sectionOf(s.root, pt.node)
	if !ok {
		return "", nil, false
	}
	if _, known := s.model.get(id); !known {
		return "", nil, false
	}
	return id, w, true
}

// comparePositions orders boundary points in document order.
func comparePositions(a, b Position) int {
	n := min(len(a.Path), len(b.Path))
	for i := range n {
		if a.Path[i] != b.Path[i] {
			return a.Path[i] - b.Path[i]
		}
	}
	switch {
	case len(a.Path) == len(b.Path):
		return a.Offset - b.Offset
	case len(a.Path) < len(b.Path):
		if a.Offset <= b.Path[n] {
			return -1
		}
		return 1
	default:
		if b.Offset <= a.Path[n] {
			return 1
		}
		return -1
	}
}
