// Package postgresql provides the PostgreSQL preset repository.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/sqlbase"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

// Persistence implements persistence.PresetRepository for PostgreSQL.
type Persistence struct {
	db         *sql.DB
	logger     *slog.Logger
	presetRepo *PresetRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	postgres := &Persistence{
		db:         database,
		logger:     logger,
		presetRepo: NewPresetRepository(database, logger),
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) Presets(ctx context.Context, ns persistence.Namespace) (models.PresetCollection, error) {
	return p.presetRepo.GetAll(ctx, ns)
}

func (p *Persistence) PresetByName(ctx context.Context, ns persistence.Namespace, name string) (models.PresetEntry, error) {
	return p.presetRepo.GetByName(ctx, ns, name)
}

func (p *Persistence) SavePreset(ctx context.Context, ns persistence.Namespace, name string, entry models.PresetEntry) error {
	return p.presetRepo.Save(ctx, ns, name, entry)
}

func (p *Persistence) DeletePreset(ctx context.Context, ns persistence.Namespace, name string) error {
	return p.presetRepo.Delete(ctx, ns, name)
}

func (p *Persistence) ImportPresets(ctx context.Context, ns persistence.Namespace, collection models.PresetCollection) (int, error) {
	return p.presetRepo.Import(ctx, ns, collection)
}
