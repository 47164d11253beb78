package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"chapterdoc/chapter"
	"chapterdoc/config"
	"chapterdoc/store"
)

var ErrStaleLoad = errors.New("chapter load was superseded")

// Sections is what session needs from section store.
type Sections interface {
	SectionCreator
	Flusher
	Chapter(ctx context.Context, id string) (*chapter.Chapter, error)
	EnsureSeedSection(ctx context.Context, chapterID string) (*chapter.Section, error)
	LoadSections(ctx context.Context, chapterID string) ([]chapter.Section, error)
}

var _ Sections = (*store.Adapter)(nil)

// Session hosts editor for one chapter at a time. Every Open gets a new
// generation, response of a load which was superseded while in flight is
// dropped.
type Session struct {
	log      *zap.Logger
	sections Sections
	assets   Assets
	cfg      *config.EditorConfig

	mu       sync.Mutex
	gen      uint64
	surface  *Surface
	autosave *Autosave
}

func NewSession(sections Sections, assets Assets, cfg *config.EditorConfig, log *zap.Logger) *Session {
	return &Session{
		log:      log.Named("session"),
		sections: sections,
		assets:   assets,
		cfg:      cfg,
	}
}

// Open loads chapter for editing making sure it has at least one section.
// Pending edits of previously opened chapter are flushed first.
func (s *Session) Open(ctx context.Context, chapterID string) (*Surface, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	ch, sections, err := s.load(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug("Dropping superseded load", zap.String("chapter", chapterID), zap.Uint64("generation", gen), zap.Uint64("current", s.gen))
		return nil, fmt.Errorf("%w: %s", ErrStaleLoad, chapterID)
	}

	surface := NewSurface(*ch, s.assets, s.sections, s.cfg.FontSize, s.log)
	if err := surface.Load(sections); err != nil {
		return nil, err
	}

	if s.autosave != nil {
		if err := s.autosave.Close(ctx); err != nil {
			s.log.Warn("Unable to save previous chapter", zap.String("chapter", s.surface.Chapter().ID), zap.Error(err))
		}
	}
	s.surface = surface
	s.autosave = NewAutosave(context.WithoutCancel(ctx), surface, s.sections, time.Duration(s.cfg.DebounceMs)*time.Millisecond, s.log)
	s.log.Debug("Chapter opened", zap.String("chapter", chapterID), zap.Int("sections", len(sections)), zap.Uint64("generation", gen))
	return surface, nil
}

func (s *Session) load(ctx context.Context, chapterID string) (*chapter.Chapter, []chapter.Section, error) {
	ch, err := s.sections.Chapter(ctx, chapterID)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load chapter %s: %w", chapterID, err)
	}
	if _, err := s.sections.EnsureSeedSection(ctx, chapterID); err != nil {
		return nil, nil, err
	}
	sections, err := s.sections.LoadSections(ctx, chapterID)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load sections of chapter %s: %w", chapterID, err)
	}
	return ch, sections, nil
}

// Surface returns currently opened surface, nil if nothing is open.
func (s *Session) Surface() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.surface
}

// Save flushes pending edits immediately.
func (s *Session) Save(ctx context.Context) (store.FlushResult, error) {
	s.mu.Lock()
	a := s.autosave
	s.mu.Unlock()

	if a == nil {
		return store.FlushResult{}, nil
	}
	return a.FlushNow(ctx)
}

// Close flushes pending edits and stops autosave.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.autosave == nil {
		return nil
	}
	err := s.autosave.Close(ctx)
	s.autosave, s.surface = nil, nil
	return err
}
