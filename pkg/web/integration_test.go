package web_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/file"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/server"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	handlers := web.NewPresetHandlers(
		file.NewPersistence(t.TempDir()),
		validator.New(validator.WithRequiredStructEnabled()),
		testNonce,
		nil,
		slog.Default(),
	)

	app := fiber.New()
	handlers.Mount(app)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	return srv
}

// TestServerAdapter_AgainstAPI drives the HTTP preset adapter against the
// real handlers.
func TestServerAdapter_AgainstAPI(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t)
	ctx := context.Background()
	ns := persistence.NewNamespace("wf-1", "42")

	adapter, err := server.New(srv.URL, testNonce, ns)
	require.NoError(t, err)

	require.NoError(t, adapter.Save(ctx, "Weekly report", models.Snapshot{"goal": "ship", "tone@s2": "formal"}))

	names, err := adapter.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Weekly report"}, names)

	data, err := adapter.Get(ctx, "Weekly report")
	require.NoError(t, err)
	assert.Equal(t, models.Snapshot{"goal": "ship", "tone@s2": "formal"}, data)

	_, err = adapter.Get(ctx, "missing")
	assert.True(t, persistence.IsPresetNotFound(err))

	require.NoError(t, adapter.ImportAll(ctx, []byte(`{"Other":{"ts":5,"data":{"goal":"other"}}}`)))

	blob, err := adapter.ExportAll(ctx)
	require.NoError(t, err)

	collection, err := persistence.DecodeCollection(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Other", "Weekly report"}, collection.Names())

	require.NoError(t, adapter.Delete(ctx, "Weekly report"))

	names, err = adapter.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, names)

	wrongNonce, err := server.New(srv.URL, "bad", ns)
	require.NoError(t, err)

	_, err = wrongNonce.List(ctx)

	var remote *persistence.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 403, remote.StatusCode)
	assert.Equal(t, "invalid_nonce", remote.Type)
}

func TestServerAdapter_RouteNamedPresets(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t)
	ctx := context.Background()

	adapter, err := server.New(srv.URL, testNonce, persistence.NewNamespace("wf-1", "42"))
	require.NoError(t, err)

	for _, name := range []string{"export", "import", "items"} {
		require.NoError(t, adapter.Save(ctx, name, models.Snapshot{"x": name}))

		data, err := adapter.Get(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, models.Snapshot{"x": name}, data)
	}

	blob, err := adapter.ExportAll(ctx)
	require.NoError(t, err)

	collection, err := persistence.DecodeCollection(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"export", "import", "items"}, collection.Names())

	require.NoError(t, adapter.Delete(ctx, "export"))

	_, err = adapter.Get(ctx, "export")
	assert.True(t, persistence.IsPresetNotFound(err))
}
