package editor

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chapterdoc/chapter"
	"chapterdoc/objects"
)

var (
	ErrUpload  = errors.New("unable to upload image")
	ErrNoImage = errors.New("transfer carries no image")
)

// Assets stores pictures returning their public URLs.
type Assets interface {
	Put(ctx context.Context, p objects.KeyPath, data []byte, declaredType string) (string, error)
}

// SectionCreator persists new sections.
type SectionCreator interface {
	NewID() string
	InsertSection(ctx context.Context, s *chapter.Section) error
}

// Transfer is clipboard or drag payload carrying a file.
type Transfer struct {
	Data        []byte
	Name        string
	ContentType string
	// PreventDefault suppresses platform insertion of the payload.
	PreventDefault func()
}

func (t *Transfer) preventDefault() {
	if t.PreventDefault != nil {
		t.PreventDefault()
	}
}

func (s *Surface) keyPath(sectionID, name string) objects.KeyPath {
	return objects.KeyPath{
		Grouping:    s.chapter.GroupingID,
		Subgrouping: s.chapter.SubgroupingID,
		Chapter:     s.chapter.ID,
		Section:     sectionID,
		Name:        uuid.NewString() + path.Ext(name),
	}
}

func (s *Surface) upload(ctx context.Context, sectionID string, t *Transfer) (string, error) {
	s.log.Debug("Uploading image", zap.String("section", sectionID), zap.String("name", t.Name), zap.Int("size", len(t.Data)))
	url, err := s.assets.Put(ctx, s.keyPath(sectionID, t.Name), t.Data, t.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return url, nil
}

// PasteImage inserts pasted image at the cursor. Image is uploaded first
// and only its public URL ever gets into the document. Cursor outside of
// any section aborts the operation before anything is uploaded.
func (s *Surface) PasteImage(ctx context.Context, t Transfer) error {
	t.preventDefault()
	return s.insertImage(ctx, &t)
}

// DropImage moves cursor to the drop point and inserts image there, same
// as PasteImage.
func (s *Surface) DropImage(ctx context.Context, t Transfer, at Position) error {
	t.preventDefault()
	if err := s.Collapse(at); err != nil {
		return err
	}
	return s.insertImage(ctx, &t)
}

func (s *Surface) insertImage(ctx context.Context, t *Transfer) error {
	if len(t.Data) == 0 {
		return ErrNoImage
	}

	s.mu.Lock()
	id, _, ok := s.sectionAtCursor()
	var kind chapter.SectionKind
	if ok {
		b, _ := s.model.get(id)
		kind = b.Kind
	}
	s.mu.Unlock()

	if !ok {
		return ErrNoSection
	}
	if kind != chapter.SectionKindText {
		return fmt.Errorf("%w: %s", ErrReadOnlyBlock, id)
	}

	// lock is not held while uploading, document may change meanwhile
	url, err := s.upload(ctx, id, t)
	if err != nil {
		return err
	}

	img := newElement("img")
	img.Attr = []html.Attribute{{Key: "src", Val: url}, {Key: "style", Val: chapter.ImageStyle}}

	s.mu.Lock()
	var w *html.Node
	if cur, _, ok := s.sectionAtCursor(); ok && cur == id {
		pt, _ := resolve(s.root, s.anchor)
		insertAt(pt, img)
		w = topWrapper(s.root, img)
	} else if w = s.wrapperNode(id); w != nil {
		// cursor moved away while uploading
		w.AppendChild(img)
	} else {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	s.anchor = positionOf(s.root, point{node: img.Parent, offset: childIndex(img) + 1})
	s.focus = s.anchor
	changed := s.commit(w)
	ch := Change{HTML: s.html(), Changed: changed}
	s.mu.Unlock()

	s.log.Debug("Image inserted", zap.String("section", id), zap.String("url", url))
	s.notify(ch)
	return nil
}

// InsertImageBlock uploads image and adds it as a new image section right
// after the block holding the cursor. Section record is created before the
// block appears in the document. When numbering leaves no room after
// current block new block goes to the end of the document.
func (s *Surface) InsertImageBlock(ctx context.Context, t Transfer) (*chapter.Section, error) {
	t.preventDefault()
	if len(t.Data) == 0 {
		return nil, ErrNoImage
	}

	s.mu.Lock()
	curID, _, ok := s.sectionAtCursor()
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoSection
	}

	id := s.sections.NewID()
	url, err := s.upload(ctx, id, &t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	after, number := s.placement(curID)
	s.mu.Unlock()

	sec := &chapter.Section{
		ID:        id,
		ChapterID: s.chapter.ID,
		Number:    number,
		Kind:      chapter.SectionKindImage,
		ImageURL:  url,
	}
	if err := s.sections.InsertSection(ctx, sec); err != nil {
		return nil, fmt.Errorf("unable to create image section: %w", err)
	}

	b := &Block{ID: sec.ID, Kind: sec.Kind, Number: sec.Number, ImageURL: url, Status: BlockStatusCommitted}
	n, err := parseWrapper(b)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.model.insertAfter(after, b)
	if prev := s.wrapperNode(after); prev != nil {
		s.root.InsertBefore(n, prev.NextSibling)
	} else {
		s.root.AppendChild(n)
	}
	s.anchor = Position{Path: []int{childIndex(n)}, Offset: 0}
	s.focus = s.anchor
	ch := Change{HTML: s.html(), Changed: []string{b.ID}}
	s.mu.Unlock()

	s.log.Debug("Image block inserted", zap.String("section", b.ID), zap.String("after", after), zap.Int("number", b.Number))
	s.notify(ch)
	return sec, nil
}

// placement finds where new block following cur goes: identifier of block
// it is placed after and its section number.
func (s *Surface) placement(cur string) (string, int) {
	b, ok := s.model.get(cur)
	if ok {
		next := s.model.next(cur)
		if next == nil || next.Number > b.Number+1 {
			return cur, b.Number + 1
		}
	}
	last := s.model.last()
	if last == nil {
		return "", 0
	}
	return last.ID, last.Number + 1
}

func hasBlockElements(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockLevel[c.DataAtom] {
			return true
		}
	}
	return false
}

// PasteHTML inserts sanitized markup at the cursor. Block level content is
// placed after the block holding the cursor.
func (s *Surface) PasteHTML(markup string) error {
	frag, err := chapter.ParseFragment(chapter.Sanitize(markup))
	if err != nil {
		return fmt.Errorf("unable to parse pasted content: %w", err)
	}
	if frag.FirstChild == nil {
		return nil
	}

	s.mu.Lock()
	id, _, ok := s.sectionAtCursor()
	if !ok {
		s.mu.Unlock()
		return ErrNoSection
	}
	if b, _ := s.model.get(id); b.Kind != chapter.SectionKindText {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrReadOnlyBlock, id)
	}

	pt, _ := resolve(s.root, s.anchor)
	if hasBlockElements(frag) {
		if blk := enclosingBlock(pt.node); blk != nil {
			pt = point{node: blk.Parent, offset: childIndex(blk) + 1}
		}
	}
	var last *html.Node
	for c := frag.FirstChild; c != nil; {
		next := c.NextSibling
		frag.RemoveChild(c)
		insertAt(pt, c)
		pt = point{node: c.Parent, offset: childIndex(c) + 1}
		last = c
		c = next
	}
	s.anchor = positionOf(s.root, point{node: last.Parent, offset: childIndex(last) + 1})
	s.focus = s.anchor
	changed := s.commit(topWrapper(s.root, last))
	ch := Change{HTML: s.html(), Changed: changed}
	s.mu.Unlock()

	s.notify(ch)
	return nil
}

// enclosingBlock returns nearest paragraph like ancestor inside of the
// section.
func enclosingBlock(n *html.Node) *html.Node {
	for ; n != nil && !isWrapper(n); n = n.Parent {
		if n.Type == html.ElementNode && paragraphs[n.DataAtom] {
			return n
		}
	}
	return nil
}

var blockLevel = map[atom.Atom]bool{
	atom.P: true, atom.H2: true, atom.H3: true, atom.Ul: true, atom.Ol: true,
	atom.Li: true, atom.Blockquote: true, atom.Div: true,
}
