package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"chapterdoc/chapter"
)

// unbatched hides batch support of the wrapped store and fails writes to
// selected sections.
type unbatched struct {
	Records
	fail map[string]bool
}

func (u *unbatched) UpdateSectionContent(ctx context.Context, id, content string) error {
	if u.fail[id] {
		return fmt.Errorf("write of %s rejected", id)
	}
	return u.Records.UpdateSectionContent(ctx, id, content)
}

func newTestAdapter(t *testing.T, r Records) *Adapter {
	t.Helper()
	return NewAdapter(r, zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

func TestAdapter_EnsureSeedSection(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			if err := r.InsertChapter(ctx, &chapter.Chapter{ID: "c"}); err != nil {
				t.Fatal(err)
			}
			a := newTestAdapter(t, r)

			seed, err := a.EnsureSeedSection(ctx, "c")
			if err != nil {
				t.Fatalf("EnsureSeedSection() error = %v", err)
			}
			if seed == nil {
				t.Fatal("EnsureSeedSection() returned nil for empty chapter")
			}

			again, err := a.EnsureSeedSection(ctx, "c")
			if err != nil || again != nil {
				t.Errorf("second EnsureSeedSection() = %v, %v, want nil, nil", again, err)
			}

			sections, err := a.LoadSections(ctx, "c")
			if err != nil {
				t.Fatalf("LoadSections() error = %v", err)
			}
			if len(sections) != 1 {
				t.Fatalf("LoadSections() returned %d sections, want 1", len(sections))
			}
			s := sections[0]
			if s.Kind != chapter.SectionKindText || s.Number != 0 || s.ID != seed.ID {
				t.Errorf("unexpected seed section: %+v", s)
			}
			if !strings.Contains(s.Content, `data-section-id="`+s.ID+`"`) {
				t.Errorf("seed content %q does not carry its identifier", s.Content)
			}
		})
	}
}

func TestAdapter_LoadSections_MissingChapter(t *testing.T) {
	a := newTestAdapter(t, NewMemory())
	if _, err := a.LoadSections(context.Background(), "none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSections() error = %v, want ErrNotFound", err)
	}
}

func TestAdapter_CreateSection(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()
	if err := r.InsertChapter(ctx, &chapter.Chapter{ID: "c"}); err != nil {
		t.Fatal(err)
	}
	a := newTestAdapter(t, r)

	first, err := a.CreateSection(ctx, "c", chapter.SectionKindText, "<p>a</p>", "")
	if err != nil {
		t.Fatalf("CreateSection() error = %v", err)
	}
	second, err := a.CreateSection(ctx, "c", chapter.SectionKindImage, "", "https://x/y.png")
	if err != nil {
		t.Fatalf("CreateSection() error = %v", err)
	}
	if first.Number != 0 || second.Number != 1 || first.ID == second.ID {
		t.Errorf("unexpected sections %+v %+v", first, second)
	}
	if _, err := a.CreateSection(ctx, "none", chapter.SectionKindText, "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateSection() for missing chapter error = %v, want ErrNotFound", err)
	}
}

func TestAdapter_InsertSection(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t, seededMemory(t, "a", "b"))

	id := a.NewID()
	s := &chapter.Section{ID: id, ChapterID: "c", Number: 5, Kind: chapter.SectionKindImage, ImageURL: "https://x/y.png"}
	if err := a.InsertSection(ctx, s); err != nil {
		t.Fatalf("InsertSection() error = %v", err)
	}
	if s.ID != id {
		t.Errorf("InsertSection() replaced identifier %q with %q", id, s.ID)
	}

	generated := &chapter.Section{ChapterID: "c", Number: 6}
	if err := a.InsertSection(ctx, generated); err != nil {
		t.Fatalf("InsertSection() error = %v", err)
	}
	if generated.ID == "" || generated.ID == id {
		t.Errorf("InsertSection() identifier = %q, want fresh one", generated.ID)
	}

	if err := a.InsertSection(ctx, &chapter.Section{ChapterID: "c", Number: 1}); !errors.Is(err, ErrConflict) {
		t.Errorf("InsertSection() at taken number error = %v, want ErrConflict", err)
	}

	sections, err := a.LoadSections(ctx, "c")
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 4 || sections[2].ID != id {
		t.Errorf("unexpected sections after insert: %+v", sections)
	}
}

func seededMemory(t *testing.T, ids ...string) *Memory {
	t.Helper()
	ctx := context.Background()
	m := NewMemory()
	if err := m.InsertChapter(ctx, &chapter.Chapter{ID: "c"}); err != nil {
		t.Fatal(err)
	}
	for i, id := range ids {
		if err := m.InsertSection(ctx, &chapter.Section{ID: id, ChapterID: "c", Number: i, Content: "<p>old</p>"}); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestAdapter_Flush(t *testing.T) {
	ctx := context.Background()
	updates := []ContentUpdate{
		{SectionID: "a", Content: "<p>A</p>"},
		{SectionID: "b", Content: "<p>B</p>"},
		{SectionID: "c", Content: "<p>C</p>"},
	}

	t.Run("batch", func(t *testing.T) {
		m := seededMemory(t, "a", "b", "c")
		res := newTestAdapter(t, m).Flush(ctx, updates)
		if res.Err() != nil || len(res.Committed) != 3 {
			t.Errorf("Flush() = %+v", res)
		}
	})

	t.Run("batch failure is atomic", func(t *testing.T) {
		m := seededMemory(t, "a", "c")
		res := newTestAdapter(t, m).Flush(ctx, updates)
		if len(res.Failed) != 3 || len(res.Committed) != 0 {
			t.Errorf("Flush() = %+v, want every update failed", res)
		}
		sections, _ := m.SectionsByChapter(ctx, "c")
		for _, s := range sections {
			if s.Content != "<p>old</p>" {
				t.Errorf("section %s was updated by failed batch", s.ID)
			}
		}
	})

	t.Run("independent writes", func(t *testing.T) {
		m := seededMemory(t, "a", "b", "c")
		res := newTestAdapter(t, &unbatched{Records: m, fail: map[string]bool{"b": true}}).Flush(ctx, updates)
		if len(res.Committed) != 2 || res.Failed["b"] == nil {
			t.Errorf("Flush() = %+v, want a and c committed, b failed", res)
		}
		if err := res.Err(); err == nil || !strings.Contains(err.Error(), "section b") {
			t.Errorf("Err() = %v", err)
		}
		sections, _ := m.SectionsByChapter(ctx, "c")
		if sections[0].Content != "<p>A</p>" || sections[1].Content != "<p>old</p>" || sections[2].Content != "<p>C</p>" {
			t.Errorf("unexpected content: %+v", sections)
		}
	})

	t.Run("nothing to do", func(t *testing.T) {
		res := newTestAdapter(t, NewMemory()).Flush(ctx, nil)
		if res.Err() != nil || len(res.Committed) != 0 {
			t.Errorf("Flush() = %+v", res)
		}
	})
}
