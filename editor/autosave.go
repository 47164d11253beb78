package editor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chapterdoc/chapter"
	"chapterdoc/store"
)

// Flusher persists content of several blocks reporting outcome per block.
type Flusher interface {
	Flush(ctx context.Context, updates []store.ContentUpdate) store.FlushResult
}

// pending returns updates for blocks not yet persisted together with
// revisions they were taken at.
func (s *Surface) pending() ([]store.ContentUpdate, map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updates []store.ContentUpdate
	revs := make(map[string]uint64)
	for _, b := range s.model.all() {
		if b.Kind != chapter.SectionKindText || b.Status == BlockStatusCommitted {
			continue
		}
		updates = append(updates, store.ContentUpdate{SectionID: b.ID, Content: b.Content})
		revs[b.ID] = b.Revision
	}
	return updates, revs
}

// settle records flush outcome. Block edited while flush was in flight
// stays pending whatever the outcome.
func (s *Surface) settle(res store.FlushResult, revs map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range res.Committed {
		if b, ok := s.model.get(id); ok && b.Revision == revs[id] {
			b.Status = BlockStatusCommitted
		}
	}
	for id := range res.Failed {
		if b, ok := s.model.get(id); ok && b.Revision == revs[id] {
			b.Status = BlockStatusFailed
		}
	}
}

// Autosave persists edits once surface was quiet for the delay. Every
// change restarts the single timer. Blocks which failed to persist are
// sent again on the next flush together with newly edited ones, committed
// blocks are never resent.
type Autosave struct {
	log     *zap.Logger
	ctx     context.Context
	surface *Surface
	flusher Flusher
	delay   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	flushMu     sync.Mutex
	unsubscribe func()
	// flushed is called after every flush attempt which had something to do
	flushed func(store.FlushResult)
}

func NewAutosave(ctx context.Context, surface *Surface, flusher Flusher, delay time.Duration, log *zap.Logger) *Autosave {
	a := &Autosave{
		log:     log.Named("autosave"),
		ctx:     ctx,
		surface: surface,
		flusher: flusher,
		delay:   delay,
	}
	a.unsubscribe = surface.Subscribe(func(Change) { a.Schedule() })
	return a
}

// Schedule (re)starts the timer.
func (a *Autosave) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		// errors are logged by flush, failed blocks stay for next attempt
		_, _ = a.flush(a.ctx)
	})
}

func (a *Autosave) cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// FlushNow persists pending blocks immediately bypassing the timer.
func (a *Autosave) FlushNow(ctx context.Context) (store.FlushResult, error) {
	a.cancel()
	return a.flush(ctx)
}

// Close stops reacting to changes and persists whatever is pending.
func (a *Autosave) Close(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()

	a.cancel()
	a.unsubscribe()
	_, err := a.flush(ctx)
	return err
}

func (a *Autosave) flush(ctx context.Context) (store.FlushResult, error) {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	updates, revs := a.surface.pending()
	if len(updates) == 0 {
		return store.FlushResult{}, nil
	}

	a.log.Debug("Flushing blocks", zap.Int("blocks", len(updates)))
	res := a.flusher.Flush(ctx, updates)
	a.surface.settle(res, revs)

	err := res.Err()
	if err != nil {
		a.log.Warn("Not all blocks were saved, failed ones will be retried", zap.Int("failed", len(res.Failed)), zap.Int("committed", len(res.Committed)), zap.Error(err))
	}
	if a.flushed != nil {
		a.flushed(res)
	}
	return res, err
}
