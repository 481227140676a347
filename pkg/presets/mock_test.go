package presets_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/mocks"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/presets"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestManager_ServerReceivesStoreSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.New()
	s.Set(store.WorkflowRef("goal"), "ship")
	s.Set(store.StepRef("s1", "tone"), "formal")

	server := &mocks.MockAdapter{}
	server.On("Save", mock.Anything, "Friday", models.Snapshot{"goal": "ship", "tone@s1": "formal"}).Return(nil).Once()

	var buf bytes.Buffer

	m := presets.NewManager(s, newLocal(), server, true, testLogger(&buf))
	require.Equal(t, presets.BackendServer, m.Backend())
	assert.True(t, m.Save(ctx, "Friday"))

	server.AssertExpectations(t)
}

func TestManager_MigrationImportFailureKeepsLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	localAdapter := newLocal()
	require.NoError(t, localAdapter.Save(ctx, "Mine", models.Snapshot{"x": "1"}))

	server := &mocks.MockAdapter{}
	server.On("List", mock.Anything).Return([]string{}, nil)
	server.On("ImportAll", mock.Anything, mock.AnythingOfType("[]uint8")).
		Return(persistence.ErrAdapterUnavailable).Once()

	var buf bytes.Buffer

	m := presets.NewManager(store.New(), localAdapter, server, true, testLogger(&buf))
	require.True(t, m.MigrationAvailable(ctx))

	n, ok := m.MigrateLocalToServer(ctx)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Contains(t, buf.String(), "Failed to migrate presets to server")

	names, err := localAdapter.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mine"}, names)

	server.AssertExpectations(t)
}
