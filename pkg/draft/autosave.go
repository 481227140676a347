// Package draft autosaves the live form as a draft, separate from named
// presets, on a debounce after every edit.
package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the quiet period after the last edit before the draft
// is written.
const DefaultInterval = 10 * time.Second

// Storage persists the single draft of a session.
type Storage interface {
	Load(ctx context.Context) (models.Snapshot, bool, error)
	Save(ctx context.Context, snapshot models.Snapshot) error
	Clear(ctx context.Context) error
}

// Autosaver writes the store to Storage after edits settle, and on demand.
type Autosaver struct {
	store     *store.Store
	storage   Storage
	debouncer *Debouncer
	logger    *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	unsubscribe func()
	flushMu     sync.Mutex
}

// NewAutosaver creates an autosaver. interval <= 0 means DefaultInterval and a
// nil clock means the real clock. Call Start to begin watching the store.
func NewAutosaver(s *store.Store, storage Storage, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a := &Autosaver{
		store:   s,
		storage: storage,
		logger:  logger.With("module", "draft"),
		ctx:     context.Background(),
	}
	a.debouncer = NewDebouncer(clock, interval, a.onTimer)

	return a
}

// Start subscribes to the store. ctx is used for timer-driven writes.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.unsubscribe != nil {
		return
	}

	a.ctx = ctx
	a.unsubscribe = a.store.SubscribeAll(func(store.Change) {
		a.debouncer.Trigger()
	})
}

// Stop unsubscribes and drops a pending write.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	a.debouncer.Cancel()
}

func (a *Autosaver) onTimer() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	_ = a.flush(ctx)
}

// flush writes the draft when the store is dirty and clears the flag only
// after the write succeeded and nothing changed meanwhile.
func (a *Autosaver) flush(ctx context.Context) error {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	if !a.store.Dirty() {
		return nil
	}

	snap, version := a.store.VersionedSnapshot()

	if err := a.storage.Save(ctx, snap); err != nil {
		a.logger.WarnContext(ctx, "Failed to save draft", "error", err)

		return err
	}

	if !a.store.MarkClean(version) {
		a.logger.DebugContext(ctx, "Store changed during draft save; staying dirty", "version", version)
	}

	return nil
}

// SaveNow writes the draft immediately, replacing any pending timer.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	a.debouncer.Cancel()

	return a.flush(ctx)
}

// Hydrate loads the stored draft into the store, leaving it clean. It
// reports whether a draft was restored.
func (a *Autosaver) Hydrate(ctx context.Context) bool {
	snap, ok, err := a.storage.Load(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to load draft", "error", err)

		return false
	}

	if !ok {
		return false
	}

	a.store.Hydrate(snap)
	a.debouncer.Cancel()

	return true
}

// Discard clears both the store and the stored draft.
func (a *Autosaver) Discard(ctx context.Context) error {
	a.store.Clear()
	a.debouncer.Cancel()

	if err := a.storage.Clear(ctx); err != nil {
		a.logger.WarnContext(ctx, "Failed to clear draft", "error", err)

		return err
	}

	a.store.MarkClean(a.store.Version())

	return nil
}

// ShouldWarnBeforeUnload reports whether leaving now would lose edits.
func (a *Autosaver) ShouldWarnBeforeUnload() bool {
	return a.store.Dirty()
}

// Pending reports whether a timer-driven write is scheduled.
func (a *Autosaver) Pending() bool {
	return a.debouncer.Pending()
}
