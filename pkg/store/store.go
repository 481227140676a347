// Package store holds the live form state of one page session: a mutable map
// of scope-qualified cells with synchronous change observers and a dirty flag.
package store

import (
	"sync"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
)

// Change describes one cell mutation.
type Change struct {
	Ref     Ref
	Old     string
	New     string
	Deleted bool
}

// Listener is notified synchronously after a change has been applied.
type Listener func(Change)

type subscription struct {
	id  int
	ref *Ref
	fn  Listener
}

// Store is the single source of truth for form values. Create one per
// session with New and release it with Teardown.
type Store struct {
	mu           sync.Mutex
	cells        map[Ref]string
	version      uint64
	cleanVersion uint64
	subs         []subscription
	nextID       int
	closed       bool
}

func New() *Store {
	return &Store{cells: make(map[Ref]string)}
}

// Get returns the raw value of a cell.
func (s *Store) Get(ref Ref) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cells[ref]

	return v, ok
}

// Value returns the value of a cell or "" when unset.
func (s *Store) Value(ref Ref) string {
	v, _ := s.Get(ref)

	return v
}

// Set writes a cell and marks the store dirty.
func (s *Store) Set(ref Ref, value string) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	old := s.cells[ref]
	s.cells[ref] = value
	s.version++
	listeners := s.listenersFor(ref)

	s.mu.Unlock()

	notify(listeners, Change{Ref: ref, Old: old, New: value})
}

// Delete removes a cell and marks the store dirty.
func (s *Store) Delete(ref Ref) {
	s.mu.Lock()

	old, ok := s.cells[ref]
	if !ok || s.closed {
		s.mu.Unlock()

		return
	}

	delete(s.cells, ref)
	s.version++
	listeners := s.listenersFor(ref)

	s.mu.Unlock()

	notify(listeners, Change{Ref: ref, Old: old, Deleted: true})
}

// Snapshot returns a flat copy of every cell.
func (s *Store) Snapshot() models.Snapshot {
	snap, _ := s.VersionedSnapshot()

	return snap
}

// VersionedSnapshot returns a flat copy of every cell together with the
// version it was taken at.
func (s *Store) VersionedSnapshot() (models.Snapshot, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(models.Snapshot, len(s.cells))
	for ref, v := range s.cells {
		snap[ref.String()] = v
	}

	return snap, s.version
}

// Len returns the number of cells.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.cells)
}

// Clear removes every cell and marks the store dirty.
func (s *Store) Clear() {
	s.replace(nil, true)
}

// Restore replaces the whole store with snap: every current cell is deleted,
// then the snapshot is assigned. The store ends up dirty.
func (s *Store) Restore(snap models.Snapshot) {
	s.replace(snap, true)
}

// Hydrate replaces the store with persisted state at session start. The
// store ends up clean.
func (s *Store) Hydrate(snap models.Snapshot) {
	s.replace(snap, false)
}

func (s *Store) replace(snap models.Snapshot, dirty bool) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	next := make(map[Ref]string, len(snap))
	for k, v := range snap {
		next[ParseRef(k)] = v
	}

	var changes []Change

	for ref, old := range s.cells {
		if v, ok := next[ref]; ok {
			if v != old {
				changes = append(changes, Change{Ref: ref, Old: old, New: v})
			}

			continue
		}

		changes = append(changes, Change{Ref: ref, Old: old, Deleted: true})
	}

	for ref, v := range next {
		if _, ok := s.cells[ref]; !ok {
			changes = append(changes, Change{Ref: ref, New: v})
		}
	}

	s.cells = next
	s.version++

	if !dirty {
		s.cleanVersion = s.version
	}

	pending := make([][]Listener, len(changes))
	for i, c := range changes {
		pending[i] = s.listenersFor(c.Ref)
	}

	s.mu.Unlock()

	for i, c := range changes {
		notify(pending[i], c)
	}
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// Dirty reports whether the store changed since it was last marked clean.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version != s.cleanVersion
}

// MarkClean clears the dirty flag if no mutation happened after version was
// read. It reports whether the flag was cleared.
func (s *Store) MarkClean(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.version {
		return false
	}

	s.cleanVersion = version

	return true
}

// Subscribe registers fn for changes of one cell. The returned function
// removes the subscription.
func (s *Store) Subscribe(ref Ref, fn Listener) func() {
	r := ref

	return s.subscribe(&r, fn)
}

// SubscribeAll registers fn for every change.
func (s *Store) SubscribeAll(fn Listener) func() {
	return s.subscribe(nil, fn)
}

func (s *Store) subscribe(ref *Ref, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, ref: ref, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)

				return
			}
		}
	}
}

// Teardown drops every observer and rejects further mutations.
func (s *Store) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = nil
	s.closed = true
}

// listenersFor must be called with s.mu held.
func (s *Store) listenersFor(ref Ref) []Listener {
	var out []Listener

	for _, sub := range s.subs {
		if sub.ref == nil || *sub.ref == ref {
			out = append(out, sub.fn)
		}
	}

	return out
}

func notify(listeners []Listener, c Change) {
	for _, fn := range listeners {
		fn(c)
	}
}
