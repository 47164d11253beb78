package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"chapterdoc/chapter"
)

// Memory keeps records in process memory. Used for tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	chapters map[string]chapter.Chapter
	sections map[string]chapter.Section
}

func NewMemory() *Memory {
	return &Memory{
		chapters: make(map[string]chapter.Chapter),
		sections: make(map[string]chapter.Section),
	}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Chapter(_ context.Context, id string) (*chapter.Chapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (m *Memory) Chapters(_ context.Context) ([]chapter.Chapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]chapter.Chapter, 0, len(m.chapters))
	for _, c := range m.chapters {
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b chapter.Chapter) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return res, nil
}

func (m *Memory) InsertChapter(_ context.Context, c *chapter.Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.chapters[c.ID]; exists {
		return fmt.Errorf("chapter %s: %w", c.ID, ErrConflict)
	}
	m.chapters[c.ID] = *c
	return nil
}

func (m *Memory) sectionsOf(chapterID string) []chapter.Section {
	var res []chapter.Section
	for _, s := range m.sections {
		if s.ChapterID == chapterID {
			res = append(res, s)
		}
	}
	slices.SortFunc(res, func(a, b chapter.Section) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return res
}

func (m *Memory) SectionsByChapter(_ context.Context, chapterID string) ([]chapter.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sectionsOf(chapterID), nil
}

func (m *Memory) insert(s *chapter.Section) error {
	if _, ok := m.chapters[s.ChapterID]; !ok {
		return fmt.Errorf("chapter %s: %w", s.ChapterID, ErrNotFound)
	}
	if _, exists := m.sections[s.ID]; exists {
		return fmt.Errorf("section %s: %w", s.ID, ErrConflict)
	}
	for _, o := range m.sections {
		if o.ChapterID == s.ChapterID && o.Number == s.Number {
			return fmt.Errorf("section number %d in chapter %s: %w", s.Number, s.ChapterID, ErrConflict)
		}
	}
	m.sections[s.ID] = *s
	return nil
}

func (m *Memory) InsertSection(_ context.Context, s *chapter.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.insert(s)
}

func (m *Memory) InsertSectionIfEmpty(_ context.Context, s *chapter.Section) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sectionsOf(s.ChapterID)) > 0 {
		return false, nil
	}
	if err := m.insert(s); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) update(id string, fn func(*chapter.Section)) error {
	s, ok := m.sections[id]
	if !ok {
		return fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	fn(&s)
	m.sections[id] = s
	return nil
}

func (m *Memory) UpdateSectionContent(_ context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.update(id, func(s *chapter.Section) { s.Content = content })
}

func (m *Memory) UpdateSectionImage(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.update(id, func(s *chapter.Section) { s.ImageURL = url })
}

// UpdateContents applies all updates or none of them.
func (m *Memory) UpdateContents(_ context.Context, updates []ContentUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		if _, ok := m.sections[u.SectionID]; !ok {
			return fmt.Errorf("section %s: %w", u.SectionID, ErrNotFound)
		}
	}
	for _, u := range updates {
		_ = m.update(u.SectionID, func(s *chapter.Section) { s.Content = u.Content })
	}
	return nil
}

func (m *Memory) NextSectionNumber(_ context.Context, chapterID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ss := m.sectionsOf(chapterID)
	if len(ss) == 0 {
		return 0, nil
	}
	return ss[len(ss)-1].Number + 1, nil
}
