package presets

import (
	"context"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
)

// MigrationAvailable reports whether the one-shot local to server migration
// should be offered: the server is active and empty while local storage
// holds at least one preset.
func (m *Manager) MigrationAvailable(ctx context.Context) bool {
	if m.backend != BackendServer || m.local == nil {
		return false
	}

	remote, err := m.server.List(ctx)
	if err != nil {
		m.warn(ctx, "Failed to list server presets for migration check", err)

		return false
	}

	if len(remote) > 0 {
		return false
	}

	local, err := m.local.List(ctx)
	if err != nil {
		m.warn(ctx, "Failed to list local presets for migration check", err)

		return false
	}

	return len(local) > 0
}

// MigrateLocalToServer bulk imports every local preset into the server and
// returns how many were sent. Local presets are kept.
func (m *Manager) MigrateLocalToServer(ctx context.Context) (int, bool) {
	if m.backend != BackendServer || m.local == nil {
		return 0, false
	}

	blob, err := m.local.ExportAll(ctx)
	if err != nil {
		m.warn(ctx, "Failed to export local presets for migration", err)

		return 0, false
	}

	collection, err := persistence.DecodeCollection(blob)
	if err != nil {
		m.warn(ctx, "Local presets are not a valid collection", err)

		return 0, false
	}

	if len(collection) == 0 {
		return 0, true
	}

	if err := m.server.ImportAll(ctx, blob); err != nil {
		m.warn(ctx, "Failed to migrate presets to server", err, "count", len(collection))

		return 0, false
	}

	m.logger.InfoContext(ctx, "Migrated local presets to server", "count", len(collection))

	return len(collection), true
}
