// Package editor hosts editable chapter document: ordered block model,
// its DOM view, cursor, image insertion, toolbar and autosave.
package editor

import (
	"slices"

	"github.com/elliotchance/orderedmap"

	"chapterdoc/chapter"
)

//go:generate go tool go-enum --marshal --names --values

// Persistence state of a block.
// ENUM(committed, pending, failed)
type BlockStatus int

// Block is a section as the editor holds it. Revision grows with every
// change, so flush could tell whether block was edited while in flight.
type Block struct {
	ID       string
	Kind     chapter.SectionKind
	Number   int
	Content  string
	ImageURL string
	Revision uint64
	Status   BlockStatus
}

func (b *Block) section() *chapter.Section {
	return &chapter.Section{ID: b.ID, Number: b.Number, Kind: b.Kind, Content: b.Content, ImageURL: b.ImageURL}
}

// model is ordered map of section id to block. Order is the document
// order and always follows section numbers.
type model struct {
	blocks *orderedmap.OrderedMap
}

func newModel(sections []chapter.Section) *model {
	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b chapter.Section) int {
		return a.Number - b.Number
	})

	m := &model{blocks: orderedmap.NewOrderedMap()}
	for _, s := range ordered {
		m.blocks.Set(s.ID, &Block{
			ID:       s.ID,
			Kind:     s.Kind,
			Number:   s.Number,
			Content:  s.Content,
			ImageURL: s.ImageURL,
			Status:   BlockStatusCommitted,
		})
	}
	return m
}

func (m *model) get(id string) (*Block, bool) {
	v, ok := m.blocks.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Block), true
}

func (m *model) len() int {
	return m.blocks.Len()
}

func (m *model) all() []*Block {
	res := make([]*Block, 0, m.blocks.Len())
	for el := m.blocks.Front(); el != nil; el = el.Next() {
		res = append(res, el.Value.(*Block))
	}
	return res
}

// next returns block following the one with given id.
func (m *model) next(id string) *Block {
	for el := m.blocks.Front(); el != nil; el = el.Next() {
		if el.Key.(string) == id {
			if n := el.Next(); n != nil {
				return n.Value.(*Block)
			}
			return nil
		}
	}
	return nil
}

func (m *model) last() *Block {
	if el := m.blocks.Back(); el != nil {
		return el.Value.(*Block)
	}
	return nil
}

// insertAfter places block right after the one with given id, or at the
// end when id is empty or unknown.
func (m *model) insertAfter(id string, b *Block) {
	if _, ok := m.blocks.Get(id); !ok {
		m.blocks.Set(b.ID, b)
		return
	}
	rebuilt := orderedmap.NewOrderedMap()
	for el := m.blocks.Front(); el != nil; el = el.Next() {
		rebuilt.Set(el.Key, el.Value)
		if el.Key.(string) == id {
			rebuilt.Set(b.ID, b)
		}
	}
	m.blocks = rebuilt
}
