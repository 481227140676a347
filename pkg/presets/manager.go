// Package presets is the error boundary between the form and preset storage.
// It picks one backend for the lifetime of a session, turns storage failures
// into logged no-ops, and discards responses overtaken by newer requests.
package presets

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
)

// Backend names the active preset storage.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendServer Backend = "server"
)

// Manager runs preset operations against the active adapter.
type Manager struct {
	store   *store.Store
	local   persistence.Adapter
	server  persistence.Adapter
	active  persistence.Adapter
	backend Backend
	logger  *slog.Logger

	loadSeq atomic.Uint64
	listSeq atomic.Uint64
}

// NewManager selects the server adapter when serverEnabled is set and a
// server adapter is given, the local adapter otherwise. The choice is final.
func NewManager(s *store.Store, local, server persistence.Adapter, serverEnabled bool, logger *slog.Logger) *Manager {
	m := &Manager{
		store:   s,
		local:   local,
		server:  server,
		active:  local,
		backend: BackendLocal,
		logger:  logger.With("module", "presets"),
	}

	if serverEnabled && server != nil {
		m.active = server
		m.backend = BackendServer
	}

	m.logger = m.logger.With("backend", string(m.backend))

	return m
}

// Backend reports which storage the manager writes to.
func (m *Manager) Backend() Backend {
	return m.backend
}

func (m *Manager) warn(ctx context.Context, msg string, err error, args ...any) {
	m.logger.WarnContext(ctx, msg, append(args, "error", err)...)
}

// Save stores the current form under name.
func (m *Manager) Save(ctx context.Context, name string) bool {
	if err := m.active.Save(ctx, name, m.store.Snapshot()); err != nil {
		m.warn(ctx, "Failed to save preset", err, "name", name)

		return false
	}

	return true
}

// Load replaces the whole form with the named preset. It returns false when
// the preset could not be read or a newer Load was issued meanwhile.
func (m *Manager) Load(ctx context.Context, name string) bool {
	seq := m.loadSeq.Add(1)

	snap, err := m.active.Get(ctx, name)
	if err != nil {
		m.warn(ctx, "Failed to load preset", err, "name", name)

		return false
	}

	if seq != m.loadSeq.Load() {
		m.logger.DebugContext(ctx, "Discarding stale preset load", "name", name, "seq", seq)

		return false
	}

	m.store.Restore(snap)

	return true
}

// Delete removes the named preset.
func (m *Manager) Delete(ctx context.Context, name string) bool {
	if err := m.active.Delete(ctx, name); err != nil {
		m.warn(ctx, "Failed to delete preset", err, "name", name)

		return false
	}

	return true
}

// List returns the preset names. ok is false when the listing failed or was
// overtaken by a newer List.
func (m *Manager) List(ctx context.Context) (names []string, ok bool) {
	seq := m.listSeq.Add(1)

	names, err := m.active.List(ctx)
	if err != nil {
		m.warn(ctx, "Failed to list presets", err)

		return []string{}, false
	}

	if seq != m.listSeq.Load() {
		m.logger.DebugContext(ctx, "Discarding stale preset list", "seq", seq)

		return []string{}, false
	}

	return names, true
}

// Export returns every preset as a collection blob.
func (m *Manager) Export(ctx context.Context) ([]byte, bool) {
	blob, err := m.active.ExportAll(ctx)
	if err != nil {
		m.warn(ctx, "Failed to export presets", err)

		return nil, false
	}

	return blob, true
}

// Import merges blob into the stored presets; imported names win.
func (m *Manager) Import(ctx context.Context, blob []byte) bool {
	if err := m.active.ImportAll(ctx, blob); err != nil {
		m.warn(ctx, "Failed to import presets", err)

		return false
	}

	return true
}
