// Package store maps chapter sections to persisted records.
package store

import (
	"context"
	"errors"

	"chapterdoc/chapter"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with existing one")
)

// ContentUpdate is a single pending change of text section body.
type ContentUpdate struct {
	SectionID string
	Content   string
}

// Records is the record store holding chapters and their sections.
// Sections are always returned ordered by number. Section number is unique
// within chapter.
type Records interface {
	Chapter(ctx context.Context, id string) (*chapter.Chapter, error)
	Chapters(ctx context.Context) ([]chapter.Chapter, error)
	InsertChapter(ctx context.Context, c *chapter.Chapter) error

	SectionsByChapter(ctx context.Context, chapterID string) ([]chapter.Section, error)
	InsertSection(ctx context.Context, s *chapter.Section) error
	// InsertSectionIfEmpty inserts section only when its chapter has no
	// sections at all, reporting whether it did.
	InsertSectionIfEmpty(ctx context.Context, s *chapter.Section) (bool, error)
	UpdateSectionContent(ctx context.Context, id, content string) error
	UpdateSectionImage(ctx context.Context, id, url string) error
	// NextSectionNumber returns number following the last section of the
	// chapter, 0 for empty chapter.
	NextSectionNumber(ctx context.Context, chapterID string) (int, error)

	Close() error
}

// BatchWriter is implemented by stores which could apply several content
// updates atomically.
type BatchWriter interface {
	UpdateContents(ctx context.Context, updates []ContentUpdate) error
}
