package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"chapterdoc/chapter"
	"chapterdoc/config"
	"chapterdoc/objects"
	"chapterdoc/store"
)

var testFonts = config.FontSizeConfig{Min: 10, Max: 36, Step: 2, Base: 16}

var testChapter = chapter.Chapter{ID: "ch", GroupingID: "Civil Code", SubgroupingID: "Part One", Title: "Article 1"}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

// recorder collects observable effects in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeAssets struct {
	rec   *recorder
	url   string
	err   error
	calls []objects.KeyPath
}

func (f *fakeAssets) Put(_ context.Context, p objects.KeyPath, data []byte, _ string) (string, error) {
	f.calls = append(f.calls, p)
	if f.rec != nil {
		f.rec.add("upload:start")
	}
	if f.err != nil {
		return "", f.err
	}
	if f.rec != nil {
		f.rec.add("upload:done")
	}
	return f.url, nil
}

type fakeCreator struct {
	created []*chapter.Section
	err     error
}

func (f *fakeCreator) NewID() string {
	return "new"
}

func (f *fakeCreator) InsertSection(_ context.Context, s *chapter.Section) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, s)
	return nil
}

func textSection(id string, number int, content string) chapter.Section {
	return chapter.Section{ID: id, ChapterID: testChapter.ID, Number: number, Kind: chapter.SectionKindText, Content: content}
}

func imageSection(id string, number int, url string) chapter.Section {
	return chapter.Section{ID: id, ChapterID: testChapter.ID, Number: number, Kind: chapter.SectionKindImage, ImageURL: url}
}

func newTestSurface(t *testing.T, assets Assets, sections ...chapter.Section) *Surface {
	t.Helper()
	if assets == nil {
		assets = &fakeAssets{url: "https://cdn/unused.png"}
	}
	s := NewSurface(testChapter, assets, &fakeCreator{}, testFonts, testLogger(t))
	if err := s.Load(sections); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

// content returns current content of the block.
func content(t *testing.T, s *Surface, id string) string {
	t.Helper()
	b, ok := s.Block(id)
	if !ok {
		t.Fatalf("block %s not found", id)
	}
	return b.Content
}

var errBoom = errors.New("boom")

// fakeFlusher fails listed sections and records what it was asked to write.
type fakeFlusher struct {
	mu      sync.Mutex
	batches [][]store.ContentUpdate
	fail    map[string]bool
	during  func()
}

func (f *fakeFlusher) Flush(_ context.Context, updates []store.ContentUpdate) store.FlushResult {
	f.mu.Lock()
	f.batches = append(f.batches, append([]store.ContentUpdate(nil), updates...))
	during := f.during
	f.during = nil
	f.mu.Unlock()

	if during != nil {
		during()
	}

	res := store.FlushResult{Failed: make(map[string]error)}
	for _, u := range updates {
		if f.fail[u.SectionID] {
			res.Failed[u.SectionID] = errBoom
			continue
		}
		res.Committed = append(res.Committed, u.SectionID)
	}
	return res
}

func (f *fakeFlusher) sent() [][]store.ContentUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]store.ContentUpdate(nil), f.batches...)
}
