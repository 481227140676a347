package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/google/uuid"
)

const upsertPresetQuery = `
	INSERT INTO presets (id, workflow_id, user_id, name, data, ts, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	ON CONFLICT (workflow_id, user_id, name) DO UPDATE SET
		data = EXCLUDED.data,
		ts = EXCLUDED.ts,
		updated_at = EXCLUDED.updated_at
`

// PresetRepository handles preset-related database operations.
type PresetRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPresetRepository creates a new preset repository.
func NewPresetRepository(db *sql.DB, logger *slog.Logger) *PresetRepository {
	return &PresetRepository{db: db, logger: logger.With("repository", "presets")}
}

// GetAll returns every preset of the namespace.
func (r *PresetRepository) GetAll(ctx context.Context, ns persistence.Namespace) (models.PresetCollection, error) {
	query := `SELECT name, data, ts FROM presets WHERE workflow_id = $1 AND user_id = $2 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, ns.WorkflowID, ns.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	collection := models.PresetCollection{}

	for rows.Next() {
		var (
			name     string
			dataJSON []byte
			entry    models.PresetEntry
		)

		if err := rows.Scan(&name, &dataJSON, &entry.TS); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}

		if err := json.Unmarshal(dataJSON, &entry.Data); err != nil {
			r.logger.WarnContext(ctx, "Skipping preset with unreadable data", "namespace", ns.String(), "name", name, "error", err)

			continue
		}

		collection[name] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presets: %w", err)
	}

	return collection, nil
}

// GetByName returns one preset or persistence.ErrPresetNotFound.
func (r *PresetRepository) GetByName(ctx context.Context, ns persistence.Namespace, name string) (models.PresetEntry, error) {
	query := `SELECT data, ts FROM presets WHERE workflow_id = $1 AND user_id = $2 AND name = $3`

	var (
		dataJSON []byte
		entry    models.PresetEntry
	)

	err := r.db.QueryRowContext(ctx, query, ns.WorkflowID, ns.UserID, name).Scan(&dataJSON, &entry.TS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PresetEntry{}, persistence.NewPresetError("Get", ns, name, persistence.ErrPresetNotFound)
		}

		return models.PresetEntry{}, fmt.Errorf("failed to query preset: %w", err)
	}

	if err := json.Unmarshal(dataJSON, &entry.Data); err != nil {
		return models.PresetEntry{}, fmt.Errorf("failed to unmarshal preset data: %w", err)
	}

	return entry, nil
}

// Save creates or overwrites a preset.
func (r *PresetRepository) Save(ctx context.Context, ns persistence.Namespace, name string, entry models.PresetEntry) error {
	return r.upsert(ctx, r.db, ns, name, entry)
}

// Delete removes a preset. Deleting a missing preset is not an error.
func (r *PresetRepository) Delete(ctx context.Context, ns persistence.Namespace, name string) error {
	query := `DELETE FROM presets WHERE workflow_id = $1 AND user_id = $2 AND name = $3`

	_, err := r.db.ExecContext(ctx, query, ns.WorkflowID, ns.UserID, name)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}

	return nil
}

// Import upserts every preset of collection in one transaction.
func (r *PresetRepository) Import(ctx context.Context, ns persistence.Namespace, collection models.PresetCollection) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, name := range collection.Names() {
		if err := r.upsert(ctx, tx, ns, name, collection[name]); err != nil {
			_ = tx.Rollback()

			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(collection), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *PresetRepository) upsert(ctx context.Context, db execer, ns persistence.Namespace, name string, entry models.PresetEntry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate preset ID: %w", err)
	}

	data := entry.Data
	if data == nil {
		data = models.Snapshot{}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal preset data: %w", err)
	}

	_, err = db.ExecContext(ctx, upsertPresetQuery,
		id.String(),
		ns.WorkflowID,
		ns.UserID,
		name,
		dataJSON,
		entry.TS,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	return nil
}
