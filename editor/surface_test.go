package editor

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"chapterdoc/chapter"
)

func TestSurface_Load(t *testing.T) {
	sections := []chapter.Section{
		imageSection("b", 1, "https://x/y.png"),
		textSection("a", 0, "<p>Hello</p>"),
	}
	s := newTestSurface(t, nil, sections...)

	want := `<div data-section-id="a" data-type="text"><p>Hello</p></div>` +
		`<div data-section-id="b" data-type="image" contenteditable="false"><img src="https://x/y.png" style="max-width:100%;border-radius:12px"/></div>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
	if got := s.HTML(); got != chapter.Serialize(sections) {
		t.Errorf("HTML() differs from serialized sections")
	}

	blocks := s.Blocks()
	if len(blocks) != 2 || blocks[0].ID != "a" || blocks[1].ID != "b" {
		t.Fatalf("Blocks() = %+v", blocks)
	}
	for _, b := range blocks {
		if b.Status != BlockStatusCommitted || b.Revision != 0 {
			t.Errorf("freshly loaded block %s: status %s revision %d", b.ID, b.Status, b.Revision)
		}
	}
}

func TestSurface_LoadUnbalanced(t *testing.T) {
	s := newTestSurface(t, nil,
		textSection("a", 0, "<p>a</p><div>"),
		textSection("b", 1, "<p>x</div>y</p>"),
		textSection("c", 2, "<p>fine</p>"),
	)
	for id, want := range map[string]string{"a": "<p>a</p><div></div>", "b": "<p>xy</p>", "c": "<p>fine</p>"} {
		if got := content(t, s, id); got != want {
			t.Errorf("block %s content = %q, want %q", id, got, want)
		}
	}
	if err := s.Input(s.HTML()); err != nil {
		t.Fatalf("Input() of loaded document error = %v", err)
	}
	if len(s.Blocks()) != 3 {
		t.Errorf("Blocks() = %+v", s.Blocks())
	}
}

func TestSurface_Input(t *testing.T) {
	s := newTestSurface(t, nil,
		textSection("a", 0, "<p>one<br></p>"),
		textSection("b", 1, "<p>two</p>"),
		imageSection("c", 2, "https://x/y.png"),
	)

	var changes []Change
	s.Subscribe(func(ch Change) { changes = append(changes, ch) })

	doc := s.HTML()
	edited := strings.Replace(doc, "<p>two</p>", "<p>two <b>more</b></p>", 1)
	if err := s.Input(edited); err != nil {
		t.Fatalf("Input() error = %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("got %d change events, want 1", len(changes))
	}
	if !slices.Equal(changes[0].Changed, []string{"b"}) {
		t.Errorf("Changed = %v, want [b]", changes[0].Changed)
	}
	if changes[0].HTML != s.HTML() || s.HTML() != edited {
		t.Errorf("document after input =\n%s\nwant\n%s", s.HTML(), edited)
	}
	if got := content(t, s, "b"); got != "<p>two <b>more</b></p>" {
		t.Errorf("content of b = %q", got)
	}
	if got := content(t, s, "a"); got != "<p>one<br></p>" {
		t.Errorf("untouched block a rewritten to %q", got)
	}
	b, _ := s.Block("b")
	if b.Status != BlockStatusPending || b.Revision != 1 {
		t.Errorf("block b status %s revision %d, want pending 1", b.Status, b.Revision)
	}

	// same snapshot again changes nothing
	if err := s.Input(edited); err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if len(changes) != 1 {
		t.Errorf("unchanged snapshot produced change event")
	}
}

func TestSurface_Input_Rejected(t *testing.T) {
	s := newTestSurface(t, nil, textSection("a", 0, "<p>one</p>"))
	before := s.HTML()

	var events int
	s.Subscribe(func(Change) { events++ })

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown block", `<div data-section-id="zzz" data-type="text"><p>x</p></div>`, ErrUnknownBlock},
		{"type changed", `<div data-section-id="a" data-type="image"></div>`, ErrUnknownBlock},
		{"duplicate", `<div data-section-id="a" data-type="text">x</div><div data-section-id="a" data-type="text">y</div>`, chapter.ErrDuplicateID},
		{"stripped identity", `<div data-type="text"><p>x</p></div>`, chapter.ErrMissingID},
		{"orphan", `<p>loose</p>`, chapter.ErrOrphanContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Input(tt.doc); !errors.Is(err, tt.want) {
				t.Errorf("Input() error = %v, want %v", err, tt.want)
			}
			if s.HTML() != before {
				t.Errorf("document changed after rejected input: %s", s.HTML())
			}
		})
	}
	if events != 0 {
		t.Errorf("rejected input produced %d change events", events)
	}
}

func TestSurface_Cursor(t *testing.T) {
	s := newTestSurface(t, nil,
		textSection("a", 0, "<p>Hello <b>bold</b></p>"),
		textSection("b", 1, "<ul><li>item</li></ul>"),
	)

	if _, ok := s.SectionAtCursor(); ok {
		t.Error("SectionAtCursor() without selection reported section")
	}

	pos, ok := s.FindText("Hello")
	if !ok {
		t.Fatal("FindText(Hello) failed")
	}
	if want := (Position{Path: []int{0, 0, 0}, Offset: 0}); pos.String() != want.String() {
		t.Errorf("FindText(Hello) = %s, want %s", pos, want)
	}

	tests := []struct {
		name   string
		needle string
		want   string
	}{
		{"plain text", "Hello", "a"},
		{"nested inline", "bold", "a"},
		{"list item", "item", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := s.FindText(tt.needle)
			if !ok {
				t.Fatalf("FindText(%q) failed", tt.needle)
			}
			if err := s.Collapse(pos); err != nil {
				t.Fatal(err)
			}
			if id, ok := s.SectionAtCursor(); !ok || id != tt.want {
				t.Errorf("SectionAtCursor() = %q/%v, want %q", id, ok, tt.want)
			}
		})
	}

	// between blocks, directly in the editor root
	if err := s.Collapse(Position{Offset: 1}); err != nil {
		t.Fatal(err)
	}
	if id, ok := s.SectionAtCursor(); ok {
		t.Errorf("SectionAtCursor() at root = %q, want none", id)
	}

	if err := s.Collapse(Position{Path: []int{7}}); !errors.Is(err, ErrBadPosition) {
		t.Errorf("Collapse() outside document error = %v, want ErrBadPosition", err)
	}
	if err := s.Collapse(Position{Path: []int{0, 0, 0}, Offset: 100}); !errors.Is(err, ErrBadPosition) {
		t.Errorf("Collapse() past text end error = %v, want ErrBadPosition", err)
	}
}

func TestComparePositions(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want int
	}{
		{"same node", Position{[]int{0, 0}, 1}, Position{[]int{0, 0}, 2}, -1},
		{"equal", Position{[]int{0, 0}, 2}, Position{[]int{0, 0}, 2}, 0},
		{"sibling order", Position{[]int{1}, 0}, Position{[]int{0, 5}, 0}, 1},
		{"ancestor before child", Position{[]int{0}, 0}, Position{[]int{0, 0}, 3}, -1},
		{"ancestor after child", Position{[]int{0}, 1}, Position{[]int{0, 0, 0}, 3}, 1},
		{"child before ancestor", Position{[]int{0, 0, 0}, 3}, Position{[]int{0}, 1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := comparePositions(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
				t.Errorf("comparePositions(%s, %s) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestModel_InsertAfter(t *testing.T) {
	m := newModel([]chapter.Section{textSection("a", 0, ""), textSection("c", 2, "")})
	m.insertAfter("a", &Block{ID: "b", Number: 1})
	m.insertAfter("missing", &Block{ID: "d", Number: 3})

	var ids []string
	for _, b := range m.all() {
		ids = append(ids, b.ID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c", "d"}) {
		t.Errorf("order = %v", ids)
	}
	if n := m.next("b"); n == nil || n.ID != "c" {
		t.Errorf("next(b) = %+v", n)
	}
	if n := m.next("d"); n != nil {
		t.Errorf("next(d) = %+v, want nil", n)
	}
	if l := m.last(); l.ID != "d" {
		t.Errorf("last() = %s", l.ID)
	}
}
