package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chapterdoc/chapter"
)

// Adapter is the only way editor and renderer talk to the record store. It
// keeps no state of its own, callers hold authoritative content.
type Adapter struct {
	records Records
	log     *zap.Logger
	newID   func() string
}

func NewAdapter(records Records, log *zap.Logger) *Adapter {
	return &Adapter{records: records, log: log, newID: uuid.NewString}
}

// Records gives access to underlying record store.
func (a *Adapter) Records() Records {
	return a.records
}

// Chapter returns chapter record.
func (a *Adapter) Chapter(ctx context.Context, id string) (*chapter.Chapter, error) {
	return a.records.Chapter(ctx, id)
}

// NewID returns fresh section identifier, so callers could key related
// objects before the record exists.
func (a *Adapter) NewID() string {
	return a.newID()
}

// LoadSections returns sections of the chapter ordered by number.
func (a *Adapter) LoadSections(ctx context.Context, chapterID string) ([]chapter.Section, error) {
	if _, err := a.records.Chapter(ctx, chapterID); err != nil {
		return nil, err
	}
	return a.records.SectionsByChapter(ctx, chapterID)
}

// EnsureSeedSection makes sure chapter could be edited: when it has no
// sections a text section at number 0 is created and returned. When
// sections already exist nothing is done and nil is returned.
func (a *Adapter) EnsureSeedSection(ctx context.Context, chapterID string) (*chapter.Section, error) {
	id := a.newID()
	seed := &chapter.Section{
		ID:        id,
		ChapterID: chapterID,
		Number:    0,
		Kind:      chapter.SectionKindText,
		Content:   chapter.SeedContent(id),
	}
	inserted, err := a.records.InsertSectionIfEmpty(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("unable to create seed section for chapter %s: %w", chapterID, err)
	}
	if !inserted {
		return nil, nil
	}
	a.log.Debug("Seed section created", zap.String("chapter", chapterID), zap.String("section", id))
	return seed, nil
}

func (a *Adapter) UpdateSectionContent(ctx context.Context, id, content string) error {
	return a.records.UpdateSectionContent(ctx, id, content)
}

func (a *Adapter) UpdateSectionImage(ctx context.Context, id, url string) error {
	return a.records.UpdateSectionImage(ctx, id, url)
}

// CreateSection persists new section at the end of the chapter and returns
// it.
func (a *Adapter) CreateSection(ctx context.Context, chapterID string, kind chapter.SectionKind, content, imageURL string) (*chapter.Section, error) {
	num, err := a.records.NextSectionNumber(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	s := &chapter.Section{
		ChapterID: chapterID,
		Number:    num,
		Kind:      kind,
		Content:   content,
		ImageURL:  imageURL,
	}
	if err := a.InsertSection(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// InsertSection persists section at the number it carries. Identifier is
// generated when absent. Taken number results in ErrConflict.
func (a *Adapter) InsertSection(ctx context.Context, s *chapter.Section) error {
	if len(s.ID) == 0 {
		s.ID = a.newID()
	}
	if err := a.records.InsertSection(ctx, s); err != nil {
		return err
	}
	a.log.Debug("Section created", zap.String("chapter", s.ChapterID), zap.String("section", s.ID), zap.Int("number", s.Number), zap.Stringer("kind", s.Kind))
	return nil
}

// FlushResult reports outcome of persisting a set of updates.
type FlushResult struct {
	Committed []string
	Failed    map[string]error
}

// Err combines all failures, nil when everything was written.
func (r FlushResult) Err() error {
	var err error
	keys := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		err = multierr.Append(err, fmt.Errorf("section %s: %w", k, r.Failed[k]))
	}
	return err
}

// Flush persists content updates. When the store supports batches all
// updates are written atomically, otherwise every update is an independent
// write and failures of some do not prevent others.
func (a *Adapter) Flush(ctx context.Context, updates []ContentUpdate) FlushResult {
	res := FlushResult{Failed: make(map[string]error)}
	if len(updates) == 0 {
		return res
	}

	if bw, ok := a.records.(BatchWriter); ok {
		err := bw.UpdateContents(ctx, updates)
		for _, u := range updates {
			if err != nil {
				res.Failed[u.SectionID] = err
			} else {
				res.Committed = append(res.Committed, u.SectionID)
			}
		}
		if err != nil {
			a.log.Warn("Batch flush failed", zap.Int("blocks", len(updates)), zap.Error(err))
		}
		return res
	}

	for _, u := range updates {
		if err := a.records.UpdateSectionContent(ctx, u.SectionID, u.Content); err != nil {
			a.log.Warn("Unable to persist block", zap.String("section", u.SectionID), zap.Error(err))
			res.Failed[u.SectionID] = err
			continue
		}
		res.Committed = append(res.Committed, u.SectionID)
	}
	return res
}
