package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"chapterdoc/chapter"
)

func backends(t *testing.T) map[string]func(t *testing.T) Records {
	return map[string]func(t *testing.T) Records{
		"memory": func(t *testing.T) Records {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) Records {
			log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
			r, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), log)
			if err != nil {
				t.Fatalf("OpenSQLite() error = %v", err)
			}
			t.Cleanup(func() { r.Close() })
			return r
		},
	}
}

func TestRecords(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			for i, id := range []string{"c2", "c1"} {
				if err := r.InsertChapter(ctx, &chapter.Chapter{ID: id, Title: "Art. " + id, Position: 1 - i}); err != nil {
					t.Fatalf("InsertChapter(%s) error = %v", id, err)
				}
			}
			if err := r.InsertChapter(ctx, &chapter.Chapter{ID: "c1"}); !errors.Is(err, ErrConflict) {
				t.Errorf("duplicate InsertChapter() error = %v, want ErrConflict", err)
			}

			chapters, err := r.Chapters(ctx)
			if err != nil {
				t.Fatalf("Chapters() error = %v", err)
			}
			if len(chapters) != 2 || chapters[0].ID != "c1" {
				t.Errorf("Chapters() = %+v, want ordered by position", chapters)
			}
			if _, err := r.Chapter(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Chapter(missing) error = %v, want ErrNotFound", err)
			}

			next, err := r.NextSectionNumber(ctx, "c1")
			if err != nil || next != 0 {
				t.Errorf("NextSectionNumber() = %d, %v, want 0", next, err)
			}

			for _, s := range []chapter.Section{
				{ID: "s5", ChapterID: "c1", Number: 5, Kind: chapter.SectionKindImage},
				{ID: "s0", ChapterID: "c1", Number: 0, Kind: chapter.SectionKindText, Content: "<p>a</p>"},
				{ID: "s2", ChapterID: "c1", Number: 2, Kind: chapter.SectionKindText},
			} {
				if err := r.InsertSection(ctx, &s); err != nil {
					t.Fatalf("InsertSection(%s) error = %v", s.ID, err)
				}
			}
			if err := r.InsertSection(ctx, &chapter.Section{ID: "dup", ChapterID: "c1", Number: 2}); !errors.Is(err, ErrConflict) {
				t.Errorf("InsertSection() with used number error = %v, want ErrConflict", err)
			}
			if err := r.InsertSection(ctx, &chapter.Section{ID: "orphan", ChapterID: "none"}); !errors.Is(err, ErrNotFound) {
				t.Errorf("InsertSection() for missing chapter error = %v, want ErrNotFound", err)
			}

			sections, err := r.SectionsByChapter(ctx, "c1")
			if err != nil {
				t.Fatalf("SectionsByChapter() error = %v", err)
			}
			var order []string
			for _, s := range sections {
				order = append(order, s.ID)
			}
			if len(order) != 3 || order[0] != "s0" || order[1] != "s2" || order[2] != "s5" {
				t.Errorf("SectionsByChapter() order = %v, want [s0 s2 s5]", order)
			}
			if sections[1].Content != "" || sections[2].ImageURL != "" || sections[2].Kind != chapter.SectionKindImage {
				t.Errorf("unexpected empty values: %+v", sections)
			}

			if next, _ := r.NextSectionNumber(ctx, "c1"); next != 6 {
				t.Errorf("NextSectionNumber() = %d, want 6", next)
			}

			if err := r.UpdateSectionContent(ctx, "s2", "<p>b</p>"); err != nil {
				t.Errorf("UpdateSectionContent() error = %v", err)
			}
			if err := r.UpdateSectionImage(ctx, "s5", "https://x/y.png"); err != nil {
				t.Errorf("UpdateSectionImage() error = %v", err)
			}
			if err := r.UpdateSectionContent(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
				t.Errorf("UpdateSectionContent(missing) error = %v, want ErrNotFound", err)
			}

			inserted, err := r.InsertSectionIfEmpty(ctx, &chapter.Section{ID: "seed", ChapterID: "c1", Kind: chapter.SectionKindText})
			if err != nil || inserted {
				t.Errorf("InsertSectionIfEmpty() on non empty chapter = %v, %v", inserted, err)
			}
			inserted, err = r.InsertSectionIfEmpty(ctx, &chapter.Section{ID: "seed", ChapterID: "c2", Kind: chapter.SectionKindText})
			if err != nil || !inserted {
				t.Errorf("InsertSectionIfEmpty() on empty chapter = %v, %v", inserted, err)
			}

			bw, ok := r.(BatchWriter)
			if !ok {
				t.Fatal("store does not support batches")
			}
			err = bw.UpdateContents(ctx, []ContentUpdate{{SectionID: "s0", Content: "<p>new</p>"}, {SectionID: "missing", Content: "x"}})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("UpdateContents() error = %v, want ErrNotFound", err)
			}
			if err := bw.UpdateContents(ctx, []ContentUpdate{{SectionID: "s0", Content: "<p>A</p>"}, {SectionID: "s2", Content: "<p>B</p>"}}); err != nil {
				t.Errorf("UpdateContents() error = %v", err)
			}

			sections, _ = r.SectionsByChapter(ctx, "c1")
			if sections[0].Content != "<p>A</p>" || sections[1].Content != "<p>B</p>" || sections[2].ImageURL != "https://x/y.png" {
				t.Errorf("unexpected content after updates: %+v", sections)
			}
		})
	}
}

func TestUpdateContents_Atomic(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			if err := r.InsertChapter(ctx, &chapter.Chapter{ID: "c"}); err != nil {
				t.Fatal(err)
			}
			if err := r.InsertSection(ctx, &chapter.Section{ID: "s", ChapterID: "c", Content: "<p>old</p>"}); err != nil {
				t.Fatal(err)
			}
			err := r.(BatchWriter).UpdateContents(ctx, []ContentUpdate{{SectionID: "s", Content: "<p>new</p>"}, {SectionID: "x", Content: "x"}})
			if err == nil {
				t.Fatal("expected error")
			}
			sections, _ := r.SectionsByChapter(ctx, "c")
			if sections[0].Content != "<p>old</p>" {
				t.Errorf("partial batch was applied: %q", sections[0].Content)
			}
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	path := filepath.Join(t.TempDir(), "reopen.db")

	r, err := OpenSQLite(path, log)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := r.InsertChapter(ctx, &chapter.Chapter{ID: "c", Title: "Kept"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err = OpenSQLite(path, log)
	if err != nil {
		t.Fatalf("second OpenSQLite() error = %v", err)
	}
	defer r.Close()
	c, err := r.Chapter(ctx, "c")
	if err != nil || c.Title != "Kept" {
		t.Errorf("Chapter() = %+v, %v", c, err)
	}
}
