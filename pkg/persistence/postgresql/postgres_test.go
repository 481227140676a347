package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/postgresql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"presets", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("promptfinder_test"),
			postgres.WithUsername("promptfinder"),
			postgres.WithPassword("promptfinder"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'presets')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "presets table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}

func TestPresetRepository_CRUD(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	ns := persistence.NewNamespace("wf-1", "7")

	require.NoError(t, p.SavePreset(ctx, ns, "Launch", models.PresetEntry{TS: 100, Data: models.Snapshot{"company": "Acme"}}))
	require.NoError(t, p.SavePreset(ctx, ns, "Launch", models.PresetEntry{TS: 200, Data: models.Snapshot{"company": "Globex"}}))

	entry, err := p.PresetByName(ctx, ns, "Launch")
	require.NoError(t, err)
	assert.Equal(t, int64(200), entry.TS)
	assert.Equal(t, "Globex", entry.Data["company"])

	other, err := p.Presets(ctx, persistence.NewNamespace("wf-1", "8"))
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, p.DeletePreset(ctx, ns, "Launch"))

	_, err = p.PresetByName(ctx, ns, "Launch")
	assert.True(t, persistence.IsPresetNotFound(err))
}

func TestPresetRepository_Import(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	ns := persistence.NewNamespace("wf-1", "7")
	require.NoError(t, p.SavePreset(ctx, ns, "A", models.PresetEntry{TS: 1, Data: models.Snapshot{"x": "old"}}))

	n, err := p.ImportPresets(ctx, ns, models.PresetCollection{
		"A": {TS: 2, Data: models.Snapshot{"x": "new"}},
		"B": {TS: 3, Data: models.Snapshot{}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := p.Presets(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, all.Names())
	assert.Equal(t, "new", all["A"].Data["x"])
}
