package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistence_SaveAndGet(t *testing.T) {
	t.Parallel()

	p := NewPersistence("file://" + t.TempDir())
	ctx := context.Background()
	ns := persistence.NewNamespace("wf-1", "7")

	require.NoError(t, p.SavePreset(ctx, ns, "Launch", models.PresetEntry{TS: 10, Data: models.Snapshot{"x": "1"}}))

	entry, err := p.PresetByName(ctx, ns, "Launch")
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.TS)
	assert.Equal(t, "1", entry.Data["x"])

	all, err := p.Presets(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"Launch"}, all.Names())
}

func TestPersistence_NamespaceIsolation(t *testing.T) {
	t.Parallel()

	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.SavePreset(ctx, persistence.NewNamespace("wf-1", "7"), "A", models.PresetEntry{Data: models.Snapshot{}}))

	for _, ns := range []persistence.Namespace{
		persistence.NewNamespace("wf-1", "8"),
		persistence.NewNamespace("wf-2", "7"),
		persistence.NewNamespace("../wf-1", "7"),
	} {
		all, err := p.Presets(ctx, ns)
		require.NoError(t, err)
		assert.Empty(t, all, ns.String())
	}
}

func TestPersistence_NotFoundAndDelete(t *testing.T) {
	t.Parallel()

	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	ns := persistence.NewNamespace("wf-1", "7")

	_, err := p.PresetByName(ctx, ns, "missing")
	assert.True(t, persistence.IsPresetNotFound(err))

	require.NoError(t, p.SavePreset(ctx, ns, "A", models.PresetEntry{Data: models.Snapshot{"x": "1"}}))
	require.NoError(t, p.DeletePreset(ctx, ns, "A"))
	require.NoError(t, p.DeletePreset(ctx, ns, "A"))

	_, err = p.PresetByName(ctx, ns, "A")
	assert.True(t, persistence.IsPresetNotFound(err))
}

func TestPersistence_ImportMerges(t *testing.T) {
	t.Parallel()

	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	ns := persistence.NewNamespace("wf-1", "7")

	require.NoError(t, p.SavePreset(ctx, ns, "A", models.PresetEntry{TS: 1, Data: models.Snapshot{"x": "old"}}))

	n, err := p.ImportPresets(ctx, ns, models.PresetCollection{
		"A": {TS: 2, Data: models.Snapshot{"x": "new"}},
		"B": {TS: 3, Data: models.Snapshot{"y": "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := p.Presets(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, all.Names())
	assert.Equal(t, "new", all["A"].Data["x"])
}

func TestPersistence_CorruptFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := NewPersistence(root)
	ns := persistence.NewNamespace("wf-1", "7")

	require.NoError(t, os.MkdirAll(filepath.Dir(p.path(ns)), 0750))
	require.NoError(t, os.WriteFile(p.path(ns), []byte("{broken"), 0600))

	_, err := p.Presets(context.Background(), ns)
	assert.Error(t, err)
}

func TestPersistence_HealthCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(context.Background()))
	assert.Error(t, NewPersistence(filepath.Join(t.TempDir(), "missing")).HealthCheck(context.Background()))
}
